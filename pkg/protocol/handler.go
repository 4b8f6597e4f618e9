// Package protocol defines the contract between the engine and pluggable
// node handlers.
package protocol

import (
	"context"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// Handler executes nodes of one node type. The engine renders templated
// config values before the call and never interprets the returned output.
// Execute must
// honor ctx cancellation: the engine cancels it on per-node timeout and when
// the run is stopped.
type Handler interface {
	Execute(ctx context.Context, node *models.NodeDefinition, execCtx *models.ExecutionContext) (any, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, node *models.NodeDefinition, execCtx *models.ExecutionContext) (any, error)

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, node *models.NodeDefinition, execCtx *models.ExecutionContext) (any, error) {
	return f(ctx, node, execCtx)
}

// SchemaProvider is implemented by handlers that publish a JSON schema for
// their node config. The registry validates configs against it before a run.
type SchemaProvider interface {
	Schema() map[string]any
}
