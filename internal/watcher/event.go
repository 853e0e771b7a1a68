package watcher

import "time"

// EventType is the kind of change observed on a watched file.
type EventType int

const (
	// EventChanged means the file was created or rewritten.
	EventChanged EventType = iota
	// EventRemoved means the file no longer exists.
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a settled change on a watched file.
type Event struct {
	Type EventType
	Path string
	Time time.Time
}
