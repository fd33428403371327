// Package eventbus carries run lifecycle events (triggered, block finished,
// run finished) between the executor and whoever listens: the API's event
// stream, the worker, or nothing at all.
package eventbus

import (
	"context"

	"github.com/flowforge/flowforge/pkg/events"
)

// Event is anything the bus can route; the type selects the handler.
type Event interface {
	GetType() events.EventType
}

// EventPublisher emits an event keyed by run ID so one run's events stay ordered.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber registers one handler per event type, then consumes until ctx ends.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives the decoded event; its concrete type matches the
// registered events.EventType.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// NopPublisher drops every event. Executors without a bus use it.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error {
	return nil
}
