// Package engine drives a validated graph of plan steps through
// dependency-aware, concurrency-bounded execution: each node runs once its
// dependencies settle, failures cascade blockage to pending dependents, and
// the run terminates when every node reaches a terminal status.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JudgeZ/stepflow/pkg/eventbus"
	"github.com/JudgeZ/stepflow/pkg/events"
	"github.com/JudgeZ/stepflow/pkg/graph"
	"github.com/JudgeZ/stepflow/pkg/models"
	"github.com/JudgeZ/stepflow/pkg/protocol"
	"github.com/JudgeZ/stepflow/pkg/registry"
)

// DefaultConcurrencyLimit caps in-flight node executions when the caller
// does not choose a limit.
const DefaultConcurrencyLimit = 10

// Engine executes one graph definition. A single Engine runs at most one
// execution at a time; concurrent runs of the same graph need separate
// instances.
type Engine struct {
	definition *models.GraphDefinition
	registry   *registry.Registry
	publisher  eventbus.EventPublisher
	logger     *slog.Logger
	limit      int
	deps       graph.DependencyIndex

	// wg tracks executor goroutines; Execute only returns after they quiesce.
	wg sync.WaitGroup

	// mu guards all per-run state below.
	mu         sync.Mutex
	running    bool
	stopped    bool
	executions map[string]*models.NodeExecution
	inflight   map[string]bool
	ectx       *models.ExecutionContext
	remaining  int
	done       chan struct{}
	cancel     context.CancelFunc
	slots      chan struct{}
}

// NewEngine validates the definition and builds an engine for it. The
// publisher may be nil to run without lifecycle events.
func NewEngine(
	def *models.GraphDefinition,
	reg *registry.Registry,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
	concurrencyLimit int,
) (*Engine, error) {
	if err := graph.Validate(def); err != nil {
		return nil, err
	}

	if publisher == nil {
		publisher = eventbus.NopPublisher{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	if concurrencyLimit <= 0 {
		concurrencyLimit = DefaultConcurrencyLimit
	}

	return &Engine{
		definition: def,
		registry:   reg,
		publisher:  publisher,
		logger:     logger.With(slog.String("module", "engine"), slog.String("graph_id", def.ID)),
		limit:      concurrencyLimit,
		deps:       graph.BuildDependencyIndex(def.Nodes),
	}, nil
}

// RegisterHandler installs a handler for a node type on the engine's
// registry and announces it on the event bus.
func (e *Engine) RegisterHandler(nodeType models.NodeType, handler protocol.Handler) {
	e.registry.Register(nodeType, handler)

	e.publish(context.Background(), events.HandlerRegistered{
		BaseEvent: events.NewBaseEvent(events.HandlerRegisteredEvent, e.definition.ID),
		NodeType:  string(nodeType),
	})
}

// Execute runs the graph to completion. It returns the run result, paired
// with an ExecutionError when one or more nodes failed without
// continue-on-error. The result is always built, also on the error path.
func (e *Engine) Execute(ctx context.Context) (*models.ExecutionResult, error) {
	if err := e.registry.ValidateGraphConfig(e.definition); err != nil {
		return nil, err
	}

	runCtx, ectx, done, err := e.beginRun(ctx)
	if err != nil {
		return nil, err
	}

	defer e.endRun()

	logger := e.logger.With(slog.String("execution_id", ectx.ExecutionID))
	logger.Info("Starting graph execution",
		slog.Int("nodes", len(e.definition.Nodes)),
		slog.Int("concurrency_limit", e.limit),
	)

	start := time.Now()

	started := events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, e.definition.ID),
		ExecutionID: ectx.ExecutionID,
		GraphName:   e.definition.Name,
		Variables:   ectx.Variables(),
	}
	e.publish(runCtx, started)

	e.scheduleNodes(runCtx, e.definition.EntryNodes)

	var stoppedEarly bool

	select {
	case <-done:
	case <-runCtx.Done():
		stoppedEarly = true
	}

	duration := time.Since(start)

	return e.finishRun(ctx, logger, ectx, duration, stoppedEarly)
}

// beginRun installs fresh per-run state, rejecting overlapping executions.
func (e *Engine) beginRun(ctx context.Context) (context.Context, *models.ExecutionContext, chan struct{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil, nil, nil, &AlreadyRunningError{GraphID: e.definition.ID}
	}

	e.running = true
	e.stopped = false
	e.executions = make(map[string]*models.NodeExecution, len(e.definition.Nodes))

	for _, node := range e.definition.Nodes {
		e.executions[node.ID] = &models.NodeExecution{
			NodeID: node.ID,
			Status: models.ExecutionStatusPending,
		}
	}

	e.inflight = make(map[string]bool, len(e.definition.Nodes))
	e.ectx = models.NewExecutionContext(e.definition.ID, generateExecutionID(), e.definition.Variables)
	e.remaining = len(e.definition.Nodes)
	e.done = make(chan struct{})
	e.slots = make(chan struct{}, e.limit)

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	return runCtx, e.ectx, e.done, nil
}

// endRun cancels the run context, waits for executor goroutines to wind
// down, and releases the instance for the next run. Handler bodies that
// ignore cancellation may keep running detached; engine bookkeeping does not.
func (e *Engine) endRun() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	e.wg.Wait()

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// finishRun aggregates the run outcome. A stopped run reports as stopped
// even when cancellation tore down in-flight nodes as failures.
func (e *Engine) finishRun(
	ctx context.Context,
	logger *slog.Logger,
	ectx *models.ExecutionContext,
	duration time.Duration,
	stoppedEarly bool,
) (*models.ExecutionResult, error) {
	eventCtx := context.WithoutCancel(ctx)

	if stoppedEarly {
		result := e.buildResult(duration, nil)

		e.publish(eventCtx, events.ExecutionStopped{
			BaseEvent:   events.NewBaseEvent(events.ExecutionStoppedEvent, e.definition.ID),
			ExecutionID: ectx.ExecutionID,
			DurationMs:  duration.Milliseconds(),
		})
		logger.Warn("Graph execution stopped before completion",
			slog.Duration("duration", duration),
		)

		return result, nil
	}

	e.mu.Lock()

	var failures []NodeFailure

	for _, node := range e.definition.Nodes {
		exec := e.executions[node.ID]
		if exec.Status == models.ExecutionStatusFailed && !node.ContinueOnError {
			failures = append(failures, NodeFailure{
				NodeID:   node.ID,
				Message:  exec.Error.Message,
				Attempts: exec.Attempts,
			})
		}
	}

	e.mu.Unlock()

	if len(failures) > 0 {
		runErr := &ExecutionError{
			GraphID:     e.definition.ID,
			ExecutionID: ectx.ExecutionID,
			Failures:    failures,
		}
		runErr.Result = e.buildResult(duration, runErr)

		failedIDs := make([]string, 0, len(failures))
		for _, failure := range failures {
			failedIDs = append(failedIDs, failure.NodeID)
		}

		e.publish(eventCtx, events.ExecutionFailed{
			BaseEvent:   events.NewBaseEvent(events.ExecutionFailedEvent, e.definition.ID),
			ExecutionID: ectx.ExecutionID,
			DurationMs:  duration.Milliseconds(),
			Error:       runErr.Error(),
			FailedNodes: failedIDs,
		})
		logger.Error("Graph execution failed",
			slog.Int("failed_nodes", len(failures)),
			slog.Duration("duration", duration),
		)

		return runErr.Result, runErr
	}

	result := e.buildResult(duration, nil)

	e.publish(eventCtx, events.ExecutionCompleted{
		BaseEvent:     events.NewBaseEvent(events.ExecutionCompletedEvent, e.definition.ID),
		ExecutionID:   ectx.ExecutionID,
		DurationMs:    duration.Milliseconds(),
		NodesExecuted: result.Completed,
	})
	logger.Info("Graph execution completed", slog.Duration("duration", duration))

	return result, nil
}

// Stop cancels the run context. New dispatches cease and cancellation-aware
// handlers abort; the current Execute call returns once it observes the
// cancellation.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	if e.running {
		e.stopped = true
	}
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (e *Engine) publish(ctx context.Context, event eventbus.Event) {
	if err := e.publisher.Publish(ctx, e.definition.ID, event); err != nil {
		e.logger.Warn("Failed to publish lifecycle event",
			slog.String("event_type", string(event.GetType())),
			slog.Any("error", err),
		)
	}
}

func generateExecutionID() string {
	return fmt.Sprintf("exec-%s", uuid.New().String()[:8])
}
