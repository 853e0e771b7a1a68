// Package domain holds the core entities of the Shiori server.
package domain

import (
	"time"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
)

// Book is a catalogue entry as shown on the Explore feed and on boards.
//
// ID is "<trackId>-<page>-<suffix>" for catalogue results, so two pages can
// show the same title under different IDs while sharing a masonry height.
type Book struct {
	ID          string           `json:"id"`
	URI         string           `json:"uri"`
	Title       string           `json:"title"`
	Author      string           `json:"author,omitempty"`
	Description string           `json:"description,omitempty"`
	Aesthetics  aesthetic.TagSet `json:"aesthetics"`
	Height      int              `json:"height"`
	BlurHash    string           `json:"blur_hash,omitempty"`
}

// Ref returns the minimal input the tag extractor needs.
func (b *Book) Ref() aesthetic.BookRef {
	return aesthetic.BookRef{ImageRef: b.URI, Title: b.Title}
}

// Tags extracts the book's aesthetic tags from its cover reference and
// title. Whatever is in Aesthetics is not consulted.
func (b *Book) Tags() aesthetic.TagSet {
	return aesthetic.ExtractBook(b.Ref())
}

// LikedBook is a book on a user's board.
type LikedBook struct {
	Book
	UserID   string    `json:"-"`
	Position int       `json:"position"`
	LikedAt  time.Time `json:"liked_at"`
}
