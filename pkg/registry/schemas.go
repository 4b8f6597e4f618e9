package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/JudgeZ/stepflow/pkg/models"
	"github.com/JudgeZ/stepflow/pkg/protocol"
)

// ValidateGraphConfig checks every node config in the definition against the
// JSON schema of its handler, for handlers that publish one. Node types with
// no registered handler are skipped here; the executor reports those as
// MissingHandlerError when the node is dispatched.
func (r *Registry) ValidateGraphConfig(def *models.GraphDefinition) error {
	for _, node := range def.Nodes {
		handler, err := r.Resolve(node.Type)
		if err != nil {
			continue
		}

		provider, ok := handler.(protocol.SchemaProvider)
		if !ok {
			continue
		}

		schema := provider.Schema()
		if schema == nil {
			continue
		}

		if err := validateConfig(node, schema); err != nil {
			return err
		}
	}

	return nil
}

func validateConfig(node *models.NodeDefinition, schema map[string]any) error {
	config := node.Config
	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("config schema for node %q: %w", node.ID, err)
	}

	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]

	return fmt.Errorf("invalid config for node %q: %s", node.ID, first.String())
}
