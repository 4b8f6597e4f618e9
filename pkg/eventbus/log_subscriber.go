package eventbus

import (
	"context"
	"log/slog"

	"github.com/JudgeZ/stepflow/pkg/events"
)

var allEventTypes = []events.EventType{
	events.ExecutionStartedEvent,
	events.ExecutionCompletedEvent,
	events.ExecutionFailedEvent,
	events.ExecutionStoppedEvent,
	events.NodeStartedEvent,
	events.NodeCompletedEvent,
	events.NodeRetryEvent,
	events.NodeFailedEvent,
	events.NodeBlockedEvent,
	events.HandlerRegisteredEvent,
}

// AttachLogging registers a handler for every lifecycle event type that
// records the event through slog. It is the default observability
// collaborator: callers that want metrics or audit trails register their own
// handlers instead.
func AttachLogging(bus EventSubscriber, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, eventType := range allEventTypes {
		et := eventType

		err := bus.Handle(et, func(_ context.Context, event interface{}) error {
			logger.Info("Lifecycle event",
				slog.String("event_type", string(et)),
				slog.Any("event", event),
			)

			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
