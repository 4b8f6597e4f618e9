// Package testutil provides test data builders for nodes and graphs.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// Node creates a task node with sensible defaults that can be overridden.
func Node(id string, overrides ...func(*models.NodeDefinition)) *models.NodeDefinition {
	node := &models.NodeDefinition{
		ID:   id,
		Type: models.NodeTypeTask,
		Name: "Test Node " + id,
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithType sets the node type.
func WithType(nodeType models.NodeType) func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.Type = nodeType
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.Name = name
	}
}

// WithDependencies sets the node's dependency edges.
func WithDependencies(deps ...string) func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.Dependencies = deps
	}
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.Config = config
	}
}

// WithRetryPolicy sets the node retry policy.
func WithRetryPolicy(maxRetries int, backoff time.Duration, exponential bool) func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.RetryPolicy = &models.RetryPolicy{
			MaxRetries:  maxRetries,
			Backoff:     backoff,
			Exponential: exponential,
		}
	}
}

// WithTimeout sets the node timeout.
func WithTimeout(timeout time.Duration) func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.Timeout = timeout
	}
}

// WithContinueOnError lets dependents proceed even if this node fails.
func WithContinueOnError() func(*models.NodeDefinition) {
	return func(n *models.NodeDefinition) {
		n.ContinueOnError = true
	}
}

// Graph creates a graph definition around the given nodes.
func Graph(nodes ...*models.NodeDefinition) *models.GraphDefinition {
	return &models.GraphDefinition{
		ID:    uuid.New().String(),
		Name:  "Test Graph",
		Nodes: nodes,
	}
}

// GraphWithVariables creates a graph seeded with initial variables.
func GraphWithVariables(variables map[string]any, nodes ...*models.NodeDefinition) *models.GraphDefinition {
	def := Graph(nodes...)
	def.Variables = variables

	return def
}
