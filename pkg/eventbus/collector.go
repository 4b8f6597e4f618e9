package eventbus

import (
	"context"
	"sync"

	"github.com/JudgeZ/stepflow/pkg/events"
)

// Collector is an EventPublisher that records every published event in
// order. Intended for tests asserting on event sequences.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Publish(_ context.Context, _ string, event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)

	return nil
}

// Events returns a snapshot of everything published so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, len(c.events))
	copy(out, c.events)

	return out
}

// ByType returns the published events of one type, in publish order.
func (c *Collector) ByType(eventType events.EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Event

	for _, event := range c.events {
		if event.GetType() == eventType {
			out = append(out, event)
		}
	}

	return out
}
