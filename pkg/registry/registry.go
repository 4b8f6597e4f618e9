// Package registry maps node types to the handlers that execute them.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/JudgeZ/stepflow/pkg/models"
	"github.com/JudgeZ/stepflow/pkg/protocol"
)

// MissingHandlerError reports a node type with no registered handler. This
// is a configuration error: it is never retried.
type MissingHandlerError struct {
	NodeType models.NodeType
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for node type %q", e.NodeType)
}

// Registry holds one handler per node type.
type Registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[models.NodeType]protocol.Handler
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		logger:   log,
		handlers: make(map[models.NodeType]protocol.Handler),
	}
}

// Register installs a handler for a node type, replacing any previous one.
func (r *Registry) Register(nodeType models.NodeType, handler protocol.Handler) {
	r.mu.Lock()
	r.handlers[nodeType] = handler
	r.mu.Unlock()

	r.logger.Info("Registered node handler", slog.String("node_type", string(nodeType)))
}

// Resolve returns the handler for a node type.
func (r *Registry) Resolve(nodeType models.NodeType) (protocol.Handler, error) {
	r.mu.RLock()
	handler, ok := r.handlers[nodeType]
	r.mu.RUnlock()

	if !ok {
		return nil, &MissingHandlerError{NodeType: nodeType}
	}

	return handler, nil
}

// Types returns the registered node types.
func (r *Registry) Types() []models.NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]models.NodeType, 0, len(r.handlers))
	for nodeType := range r.handlers {
		types = append(types, nodeType)
	}

	return types
}
