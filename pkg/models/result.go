package models

import "time"

// ExecutionResult is the immutable summary of one run, produced once every
// node has reached a terminal status (or the run was stopped).
type ExecutionResult struct {
	GraphID     string           `json:"graph_id"`
	ExecutionID string           `json:"execution_id"`
	Success     bool             `json:"success"`
	TotalNodes  int              `json:"total_nodes"`
	Completed   int              `json:"completed"`
	Failed      int              `json:"failed"`
	Blocked     int              `json:"blocked"`
	Skipped     int              `json:"skipped"`
	Duration    time.Duration    `json:"duration"`
	Error       string           `json:"error,omitempty"`
	Executions  []*NodeExecution `json:"executions"`
	Outputs     map[string]any   `json:"outputs,omitempty"`
}
