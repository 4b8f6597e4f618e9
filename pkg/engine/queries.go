package engine

import "github.com/JudgeZ/stepflow/pkg/models"

// Execution returns a snapshot of one node's execution record. It reports
// false before the first run and for unknown node IDs.
func (e *Engine) Execution(nodeID string) (*models.NodeExecution, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	exec, ok := e.executions[nodeID]
	if !ok {
		return nil, false
	}

	return exec.Clone(), true
}

// Executions returns snapshots of every execution record in definition
// order. Nil before the first run.
func (e *Engine) Executions() []*models.NodeExecution {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.executions == nil {
		return nil
	}

	out := make([]*models.NodeExecution, 0, len(e.definition.Nodes))
	for _, node := range e.definition.Nodes {
		out = append(out, e.executions[node.ID].Clone())
	}

	return out
}

// Context returns the current run's execution context. Its accessors are
// safe for concurrent use. Nil before the first run.
func (e *Engine) Context() *models.ExecutionContext {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ectx
}

// Definition returns the validated graph definition. Callers must treat it
// as read-only.
func (e *Engine) Definition() *models.GraphDefinition {
	return e.definition
}

// IsRunning reports whether an execution is in progress.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.running
}
