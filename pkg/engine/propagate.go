package engine

import (
	"context"
	"log/slog"

	"github.com/JudgeZ/stepflow/pkg/events"
	"github.com/JudgeZ/stepflow/pkg/models"
)

// propagateBlocked walks the dependency index breadth-first from a failed
// node and marks every still-pending dependent blocked, cascading through
// chains of dependents. Running, terminal, or already-blocked nodes stop the
// traversal; a blocked node never runs.
func (e *Engine) propagateBlocked(ctx context.Context, failedID string) {
	var blocked []string

	e.mu.Lock()

	queue := append([]string(nil), e.deps.Dependents(failedID)...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		exec := e.executions[id]
		if exec.Status != models.ExecutionStatusPending {
			continue
		}

		exec.Status = models.ExecutionStatusBlocked
		blocked = append(blocked, id)
		queue = append(queue, e.deps.Dependents(id)...)
	}

	e.mu.Unlock()

	for _, id := range blocked {
		e.logger.Warn("Node blocked by upstream failure",
			slog.String("node_id", id),
			slog.String("failed_dependency", failedID),
		)

		e.publish(ctx, events.NodeBlocked{
			BaseEvent:        events.NewBaseEvent(events.NodeBlockedEvent, e.definition.ID),
			ExecutionID:      e.ectx.ExecutionID,
			NodeID:           id,
			FailedDependency: failedID,
		})
	}

	e.mu.Lock()
	for range blocked {
		e.settleLocked()
	}
	e.mu.Unlock()
}
