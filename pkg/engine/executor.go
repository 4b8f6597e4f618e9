package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JudgeZ/stepflow/pkg/events"
	"github.com/JudgeZ/stepflow/pkg/models"
	"github.com/JudgeZ/stepflow/pkg/protocol"
	"github.com/JudgeZ/stepflow/pkg/template"
)

// runNode owns one node for the whole run: it acquires a concurrency slot,
// runs an attempt, and loops through backoff when the retry policy warrants
// another try. The slot is released during backoff so waiting nodes are not
// starved by sleeping ones.
func (e *Engine) runNode(ctx context.Context, id string) {
	node, ok := e.definition.Node(id)
	if !ok {
		return
	}

	for {
		select {
		case e.slots <- struct{}{}:
		case <-ctx.Done():
			return
		}

		retry, delay := e.runAttempt(ctx, node)
		<-e.slots

		if !retry {
			return
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return
		}
	}
}

// runAttempt performs a single dispatch of the node. It reports whether a
// retry is warranted and the backoff to wait before it.
func (e *Engine) runAttempt(ctx context.Context, node *models.NodeDefinition) (bool, time.Duration) {
	e.mu.Lock()

	exec := e.executions[node.ID]
	now := time.Now()

	if exec.StartedAt == nil {
		exec.StartedAt = &now
	}

	exec.Status = models.ExecutionStatusRunning
	exec.Attempts++
	attempt := exec.Attempts
	ectx := e.ectx

	e.mu.Unlock()

	logger := e.logger.With(
		slog.String("execution_id", ectx.ExecutionID),
		slog.String("node_id", node.ID),
		slog.Int("attempt", attempt),
	)
	logger.Info("Executing node", slog.String("node_type", string(node.Type)))

	e.publish(ctx, events.NodeStarted{
		BaseEvent:   events.NewBaseEvent(events.NodeStartedEvent, e.definition.ID),
		ExecutionID: ectx.ExecutionID,
		NodeID:      node.ID,
		Attempt:     attempt,
	})

	handler, err := e.registry.Resolve(node.Type)
	if err != nil {
		// No handler is a configuration error: the node fails without
		// consuming retry budget.
		logger.Error("No handler for node type", slog.String("node_type", string(node.Type)))
		e.failNode(ctx, logger, node, err)

		return false, 0
	}

	runNode := node

	if len(node.Config) > 0 {
		rendered, renderErr := template.RenderConfig(node.Config, ectx)
		if renderErr != nil {
			logger.Error("Failed to render node config", slog.Any("error", renderErr))

			return e.handleFailure(ctx, logger, node, fmt.Errorf("render config for node %s: %w", node.ID, renderErr))
		}

		clone := *node
		clone.Config = rendered
		runNode = &clone
	}

	output, err := e.invoke(ctx, handler, runNode, ectx)
	if err == nil {
		e.completeNode(ctx, logger, node, output)

		return false, 0
	}

	return e.handleFailure(ctx, logger, node, err)
}

// invoke races the handler against the node timeout. The timeout context is
// threaded into the handler so cancellation-aware handlers stop early; a
// handler that ignores it still forfeits the node when the deadline passes.
func (e *Engine) invoke(
	ctx context.Context,
	handler protocol.Handler,
	node *models.NodeDefinition,
	ectx *models.ExecutionContext,
) (any, error) {
	timeout := node.EffectiveTimeout()

	nodeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		output any
		err    error
	}

	resultCh := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- outcome{err: fmt.Errorf("handler panicked on node %s: %v", node.ID, r)}
			}
		}()

		output, err := handler.Execute(nodeCtx, node, ectx)
		resultCh <- outcome{output: output, err: err}
	}()

	select {
	case result := <-resultCh:
		return result.output, result.err
	case <-nodeCtx.Done():
		if errors.Is(nodeCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("node %s timed out after %s", node.ID, timeout)
		}

		return nil, fmt.Errorf("node %s cancelled: %w", node.ID, nodeCtx.Err())
	}
}

// completeNode records success and wakes the node's dependents. The output
// is captured before any dependent can be dispatched.
func (e *Engine) completeNode(ctx context.Context, logger *slog.Logger, node *models.NodeDefinition, output any) {
	e.mu.Lock()

	exec := e.executions[node.ID]
	now := time.Now()
	exec.Status = models.ExecutionStatusCompleted
	exec.EndedAt = &now
	exec.Duration = now.Sub(*exec.StartedAt)
	exec.Output = output
	e.ectx.SetOutput(node.ID, output)
	duration := exec.Duration

	e.mu.Unlock()

	logger.Info("Node completed", slog.Duration("duration", duration))

	e.publish(ctx, events.NodeCompleted{
		BaseEvent:   events.NewBaseEvent(events.NodeCompletedEvent, e.definition.ID),
		ExecutionID: e.ectx.ExecutionID,
		NodeID:      node.ID,
		DurationMs:  duration.Milliseconds(),
	})

	e.scheduleNodes(ctx, e.deps.Dependents(node.ID))
	e.settle()
}

// handleFailure decides between retry and terminal failure.
func (e *Engine) handleFailure(
	ctx context.Context,
	logger *slog.Logger,
	node *models.NodeDefinition,
	cause error,
) (bool, time.Duration) {
	e.mu.Lock()

	exec := e.executions[node.ID]

	if exec.Error == nil {
		exec.Error = &models.NodeError{}
	}

	exec.Error.Message = cause.Error()

	policy := node.RetryPolicy
	retriable := policy != nil &&
		exec.Attempts < policy.MaxRetries+1 &&
		!e.stopped &&
		ctx.Err() == nil

	if !retriable {
		e.mu.Unlock()
		e.failNode(ctx, logger, node, cause)

		return false, 0
	}

	exec.Status = models.ExecutionStatusPending
	exec.Error.RetryCount++
	retryCount := exec.Error.RetryCount
	attempt := exec.Attempts

	e.mu.Unlock()

	delay := policy.Delay(retryCount)

	logger.Warn("Node attempt failed, retrying",
		slog.Any("error", cause),
		slog.Duration("backoff", delay),
	)

	e.publish(ctx, events.NodeRetry{
		BaseEvent:   events.NewBaseEvent(events.NodeRetryEvent, e.definition.ID),
		ExecutionID: e.ectx.ExecutionID,
		NodeID:      node.ID,
		Attempt:     attempt,
		RetryCount:  retryCount,
		DelayMs:     delay.Milliseconds(),
		Error:       cause.Error(),
	})

	return true, delay
}

// failNode records a terminal failure, then either wakes dependents (when
// the node tolerates failure) or cascades blockage through them.
func (e *Engine) failNode(ctx context.Context, logger *slog.Logger, node *models.NodeDefinition, cause error) {
	e.mu.Lock()

	exec := e.executions[node.ID]
	now := time.Now()
	exec.Status = models.ExecutionStatusFailed
	exec.EndedAt = &now

	if exec.StartedAt != nil {
		exec.Duration = now.Sub(*exec.StartedAt)
	}

	if exec.Error == nil {
		exec.Error = &models.NodeError{}
	}

	exec.Error.Message = cause.Error()
	attempts := exec.Attempts
	duration := exec.Duration

	e.mu.Unlock()

	logger.Error("Node failed",
		slog.Any("error", cause),
		slog.Int("attempts", attempts),
		slog.Bool("continue_on_error", node.ContinueOnError),
	)

	e.publish(ctx, events.NodeFailed{
		BaseEvent:   events.NewBaseEvent(events.NodeFailedEvent, e.definition.ID),
		ExecutionID: e.ectx.ExecutionID,
		NodeID:      node.ID,
		DurationMs:  duration.Milliseconds(),
		Attempts:    attempts,
		Error:       cause.Error(),
	})

	if node.ContinueOnError {
		e.scheduleNodes(ctx, e.deps.Dependents(node.ID))
		e.settle()

		return
	}

	e.propagateBlocked(ctx, node.ID)
	e.settle()
}
