package engine

import (
	"time"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// buildResult snapshots the run into an immutable summary. It is callable
// at any point of the run and is used for both the success and error paths.
func (e *Engine) buildResult(duration time.Duration, runErr error) *models.ExecutionResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := &models.ExecutionResult{
		GraphID:     e.definition.ID,
		ExecutionID: e.ectx.ExecutionID,
		TotalNodes:  len(e.definition.Nodes),
		Duration:    duration,
		Executions:  make([]*models.NodeExecution, 0, len(e.definition.Nodes)),
	}

	for _, node := range e.definition.Nodes {
		exec := e.executions[node.ID]
		result.Executions = append(result.Executions, exec.Clone())

		switch exec.Status {
		case models.ExecutionStatusCompleted:
			result.Completed++
		case models.ExecutionStatusFailed:
			result.Failed++
		case models.ExecutionStatusBlocked:
			result.Blocked++
		case models.ExecutionStatusSkipped:
			result.Skipped++
		}
	}

	result.Outputs = e.ectx.Outputs()

	if runErr != nil {
		result.Error = runErr.Error()
	}

	result.Success = runErr == nil && result.Completed == result.TotalNodes

	return result
}
