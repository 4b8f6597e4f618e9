package engine

import (
	"context"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// scheduleNodes evaluates candidates for eligibility and dispatches the
// ready ones. Each node is handed to exactly one executor goroutine for the
// whole run; retries happen inside that goroutine, not through a second
// dispatch.
func (e *Engine) scheduleNodes(ctx context.Context, candidates []string) {
	e.mu.Lock()

	var ready []string

	for _, id := range candidates {
		if e.inflight[id] || !e.canExecuteLocked(id) {
			continue
		}

		e.inflight[id] = true
		ready = append(ready, id)
	}

	e.mu.Unlock()

	for _, id := range ready {
		e.wg.Add(1)

		go func(nodeID string) {
			defer e.wg.Done()
			e.runNode(ctx, nodeID)
		}(id)
	}
}

// canExecuteLocked reports whether a node is eligible: still pending, and
// every dependency either completed or failed with its own continue-on-error
// set. Caller holds e.mu.
func (e *Engine) canExecuteLocked(id string) bool {
	exec, ok := e.executions[id]
	if !ok || exec.Status != models.ExecutionStatusPending {
		return false
	}

	node, ok := e.definition.Node(id)
	if !ok {
		return false
	}

	for _, dep := range node.Dependencies {
		depExec := e.executions[dep]

		if depExec.Status == models.ExecutionStatusCompleted {
			continue
		}

		depDef, _ := e.definition.Node(dep)
		if depExec.Status == models.ExecutionStatusFailed && depDef.ContinueOnError {
			continue
		}

		return false
	}

	return true
}

// settleLocked accounts one node reaching a terminal status. Closing done
// wakes Execute once nothing is left pending or running. Caller holds e.mu.
func (e *Engine) settleLocked() {
	e.remaining--

	if e.remaining == 0 {
		close(e.done)
	}
}

// settle is called after a node's terminal event has been published, so
// Execute cannot observe completion before the node's events are out.
func (e *Engine) settle() {
	e.mu.Lock()
	e.settleLocked()
	e.mu.Unlock()
}
