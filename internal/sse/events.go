// Package sse implements Server-Sent Events for pushing board and profile changes to clients.
package sse

import (
	"time"

	"github.com/shioriapp/shiori-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventLikeAdded is sent when a book lands on a user's board.
	EventLikeAdded EventType = "like.added"
	// EventLikeRemoved is sent when a book leaves a user's board.
	EventLikeRemoved EventType = "like.removed"
	// EventProfileUpdated carries the refreshed profile after an edit or a board change.
	EventProfileUpdated EventType = "profile.updated"
	// EventCoverReady is sent once a liked book's cover is cached with its placeholder.
	EventCoverReady EventType = "cover.ready"
	// EventCatalogReloaded is broadcast when the featured shelf changes on disk.
	EventCatalogReloaded EventType = "catalog.reloaded"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// UserID restricts delivery to one user's clients. Empty broadcasts to all.
	UserID string `json:"-"`
}

// LikeAddedEventData is the payload of like.added.
type LikeAddedEventData struct {
	Book *domain.LikedBook `json:"book"`
}

// LikeRemovedEventData is the payload of like.removed.
type LikeRemovedEventData struct {
	BookID string `json:"book_id"`
}

// ProfileEventData is the payload of profile.updated.
type ProfileEventData struct {
	Profile *domain.Profile `json:"profile"`
}

// CoverReadyEventData is the payload of cover.ready.
type CoverReadyEventData struct {
	BookID   string `json:"book_id"`
	BlurHash string `json:"blur_hash,omitempty"`
}

// CatalogReloadedEventData is the payload of catalog.reloaded.
type CatalogReloadedEventData struct {
	Books int `json:"books"`
}

// HeartbeatEventData is the payload of heartbeat.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewLikeAddedEvent creates a like.added event for the liking user.
func NewLikeAddedEvent(book *domain.LikedBook) Event {
	return Event{
		Type:      EventLikeAdded,
		Data:      LikeAddedEventData{Book: book},
		Timestamp: time.Now(),
		UserID:    book.UserID,
	}
}

// NewLikeRemovedEvent creates a like.removed event.
func NewLikeRemovedEvent(userID, bookID string) Event {
	return Event{
		Type:      EventLikeRemoved,
		Data:      LikeRemovedEventData{BookID: bookID},
		Timestamp: time.Now(),
		UserID:    userID,
	}
}

// NewProfileUpdatedEvent creates a profile.updated event for the profile's owner.
func NewProfileUpdatedEvent(profile *domain.Profile) Event {
	return Event{
		Type:      EventProfileUpdated,
		Data:      ProfileEventData{Profile: profile},
		Timestamp: time.Now(),
		UserID:    profile.UserID,
	}
}

// NewCoverReadyEvent creates a cover.ready event.
func NewCoverReadyEvent(userID, bookID, blurHash string) Event {
	return Event{
		Type:      EventCoverReady,
		Data:      CoverReadyEventData{BookID: bookID, BlurHash: blurHash},
		Timestamp: time.Now(),
		UserID:    userID,
	}
}

// NewCatalogReloadedEvent creates a catalog.reloaded broadcast.
func NewCatalogReloadedEvent(books int) Event {
	return Event{
		Type:      EventCatalogReloaded,
		Data:      CatalogReloadedEventData{Books: books},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
