package service

import "github.com/shioriapp/shiori-server/internal/sse"

// EventEmitter publishes SSE events. *sse.Manager satisfies it.
type EventEmitter interface {
	Emit(event sse.Event)
}

// NoopEmitter drops every event.
type NoopEmitter struct{}

// Emit implements EventEmitter.
func (NoopEmitter) Emit(sse.Event) {}

func emitterOrNoop(e EventEmitter) EventEmitter {
	if e == nil {
		return NoopEmitter{}
	}
	return e
}
