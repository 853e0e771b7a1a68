// Package search provides full-text search over users' boards using Bleve.
package search

import (
	"strings"

	"github.com/shioriapp/shiori-server/internal/domain"
)

// BoardDocument is one liked book in the board index.
// Documents from all users share one index and are scoped by UserID.
type BoardDocument struct {
	UserID      string
	BookID      string
	Title       string
	Author      string
	Description string
	Aesthetics  []string
	LikedAt     int64 // Unix millis
}

// DocumentID is the index key for a user's liked book.
func DocumentID(userID, bookID string) string {
	return userID + "/" + bookID
}

// NewBoardDocument builds the index document for a liked book.
func NewBoardDocument(lb *domain.LikedBook) *BoardDocument {
	return &BoardDocument{
		UserID:      lb.UserID,
		BookID:      lb.ID,
		Title:       lb.Title,
		Author:      lb.Author,
		Description: lb.Description,
		Aesthetics:  lb.Aesthetics.Strings(),
		LikedAt:     lb.LikedAt.UnixMilli(),
	}
}

// ID returns the document's index key.
func (d *BoardDocument) ID() string {
	return DocumentID(d.UserID, d.BookID)
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *BoardDocument) ToMap() map[string]any {
	m := map[string]any{
		"user_id":  d.UserID,
		"book_id":  d.BookID,
		"title":    d.Title,
		"liked_at": d.LikedAt,
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Aesthetics) > 0 {
		// Stored as one string so hits return it intact.
		m["aesthetics"] = strings.Join(d.Aesthetics, " ")
	}
	return m
}
