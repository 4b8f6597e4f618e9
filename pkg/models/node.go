// Package models defines the core domain models for graph-based plan execution.
package models

import (
	"time"
)

// NodeType tags a node with the handler family that executes it.
type NodeType string

const (
	NodeTypeTask      NodeType = "task"
	NodeTypeCondition NodeType = "condition"
	NodeTypeParallel  NodeType = "parallel"
	NodeTypeMerge     NodeType = "merge"
	NodeTypeLoop      NodeType = "loop"
)

// DefaultNodeTimeout bounds a single handler invocation when the node does
// not set its own timeout.
const DefaultNodeTimeout = 5 * time.Minute

// RetryPolicy controls how many times a failing node is re-dispatched and
// how long the engine waits between attempts.
type RetryPolicy struct {
	MaxRetries  int           `json:"max_retries"           validate:"min=0"`
	Backoff     time.Duration `json:"backoff_ms"`
	Exponential bool          `json:"exponential,omitempty"`
}

// Delay returns the backoff before the retry numbered retryCount (1-based).
// Exponential policies double the base backoff on every retry.
func (p *RetryPolicy) Delay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}

	if !p.Exponential {
		return p.Backoff
	}

	return p.Backoff * time.Duration(1<<(retryCount-1))
}

// NodeDefinition is the static description of one unit of work. It is
// immutable once the containing graph has been validated.
type NodeDefinition struct {
	ID              string         `json:"id"                          validate:"required"`
	Type            NodeType       `json:"type"                        validate:"required,oneof=task condition parallel merge loop"`
	Name            string         `json:"name"                        validate:"required,min=1"`
	Dependencies    []string       `json:"dependencies,omitempty"`
	Config          map[string]any `json:"config,omitempty"`
	RetryPolicy     *RetryPolicy   `json:"retry_policy,omitempty"`
	Timeout         time.Duration  `json:"timeout_ms,omitempty"`
	ContinueOnError bool           `json:"continue_on_error,omitempty"`
}

// EffectiveTimeout returns the node timeout, falling back to
// DefaultNodeTimeout when unset.
func (n *NodeDefinition) EffectiveTimeout() time.Duration {
	if n.Timeout > 0 {
		return n.Timeout
	}

	return DefaultNodeTimeout
}
