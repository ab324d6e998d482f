// Package events provides event bus infrastructure for decoupled,
// event-driven communication between modules.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is the base interface all domain events must implement.
type Event interface {
	// EventName returns a unique identifier for the event type.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent creates a new base event stamped in UTC.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc is an adapter to allow ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus is the interface for publishing and subscribing to domain events.
type Bus interface {
	// Publish hands the event to every subscriber without waiting.
	// The caller's context is detached so handlers outlive the request.
	Publish(ctx context.Context, event Event)

	// PublishSync runs every subscriber in order and returns the first error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the name returned by Event.EventName().
	Subscribe(eventName string, handler Handler)
}
