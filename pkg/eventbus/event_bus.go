// Package eventbus carries the engine's lifecycle events to whatever
// collaborator records them. The engine only ever sees the publisher side.
package eventbus

import (
	"context"

	"github.com/JudgeZ/stepflow/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event interface{}) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// NopPublisher discards every event. Used when a caller runs the engine
// without an observability collaborator.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, _ string, _ Event) error {
	return nil
}
