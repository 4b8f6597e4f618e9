package models

import (
	"sync"
)

// ExecutionContext is the run-scoped shared state handed to every handler.
// Variables are read/write for handlers; outputs are written once per node
// by the engine when that node completes. All accessors are safe for use by
// concurrently running handlers.
type ExecutionContext struct {
	GraphID     string
	ExecutionID string
	Metadata    map[string]any

	mu        sync.RWMutex
	variables map[string]any
	outputs   map[string]any
}

// NewExecutionContext seeds a context for a single run. The seed variables
// are copied so the graph definition stays immutable.
func NewExecutionContext(graphID, executionID string, seed map[string]any) *ExecutionContext {
	variables := make(map[string]any, len(seed))
	for k, v := range seed {
		variables[k] = v
	}

	return &ExecutionContext{
		GraphID:     graphID,
		ExecutionID: executionID,
		Metadata:    make(map[string]any),
		variables:   variables,
		outputs:     make(map[string]any),
	}
}

// Variable returns the named shared variable.
func (c *ExecutionContext) Variable(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.variables[key]

	return value, ok
}

// SetVariable writes a shared variable. Handlers that mutate the same key
// from multiple nodes must coordinate ownership themselves.
func (c *ExecutionContext) SetVariable(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.variables[key] = value
}

// Variables returns a copy of the current variable map.
func (c *ExecutionContext) Variables() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}

	return out
}

// Output returns the captured output of a completed node.
func (c *ExecutionContext) Output(nodeID string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.outputs[nodeID]

	return value, ok
}

// SetOutput captures a node output. The engine writes each node's output at
// most once, before any dependent is dispatched; later writes are ignored.
func (c *ExecutionContext) SetOutput(nodeID string, output any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.outputs[nodeID]; exists {
		return
	}

	c.outputs[nodeID] = output
}

// Outputs returns a copy of the node output map.
func (c *ExecutionContext) Outputs() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.outputs))
	for k, v := range c.outputs {
		out[k] = v
	}

	return out
}
