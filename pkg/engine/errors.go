package engine

import (
	"fmt"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// AlreadyRunningError reports Execute being called while a previous run on
// the same instance has not finished.
type AlreadyRunningError struct {
	GraphID string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("graph %q is already executing", e.GraphID)
}

// NodeFailure is the per-node detail attached to an ExecutionError.
type NodeFailure struct {
	NodeID   string
	Message  string
	Attempts int
}

// ExecutionError aggregates the hard failures of a run: failed nodes whose
// definition does not set continue-on-error. With a single failure the
// message is that node's own error, so the dominant cause reads directly;
// with several it is a count summary. The full detail and the run result
// stay attached for programmatic consumption.
type ExecutionError struct {
	GraphID     string
	ExecutionID string
	Failures    []NodeFailure
	Result      *models.ExecutionResult
}

func (e *ExecutionError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Message
	}

	return fmt.Sprintf("%d nodes failed during execution of graph %q", len(e.Failures), e.GraphID)
}

// FailedNodeIDs lists the IDs of the hard-failed nodes.
func (e *ExecutionError) FailedNodeIDs() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		ids = append(ids, failure.NodeID)
	}

	return ids
}
