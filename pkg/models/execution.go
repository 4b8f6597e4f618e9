package models

import "time"

// ExecutionStatus defines the possible states of a node execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusBlocked   ExecutionStatus = "blocked"

	// ExecutionStatusSkipped is reserved for handler-level skip semantics.
	// The engine never sets it, but the aggregator counts it.
	ExecutionStatusSkipped ExecutionStatus = "skipped"
)

// IsTerminal reports whether the status can no longer change for this run.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusBlocked, ExecutionStatusSkipped:
		return true
	default:
		return false
	}
}

// NodeError records the latest failure of a node together with how many
// retries it has consumed.
type NodeError struct {
	Message    string `json:"message"`
	RetryCount int    `json:"retry_count"`
}

// NodeExecution is the mutable per-run record of one node. Records are
// created in pending state when a run starts and are mutated only by the
// engine until they reach a terminal status.
type NodeExecution struct {
	NodeID    string          `json:"node_id"`
	Status    ExecutionStatus `json:"status"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Duration  time.Duration   `json:"duration,omitempty"`
	Attempts  int             `json:"attempts"`
	Output    any             `json:"output,omitempty"`
	Error     *NodeError      `json:"error,omitempty"`
}

// Clone returns a copy safe to hand to callers while the run is live.
func (e *NodeExecution) Clone() *NodeExecution {
	clone := *e

	if e.Error != nil {
		errCopy := *e.Error
		clone.Error = &errCopy
	}

	return &clone
}
