package models

// GraphDefinition is a declarative plan: an ordered list of nodes plus the
// dependency edges encoded on each node. A definition is validated once and
// treated as read-only for the lifetime of every run.
type GraphDefinition struct {
	ID         string            `json:"id"                    validate:"required"`
	Name       string            `json:"name"                  validate:"required,min=1"`
	Nodes      []*NodeDefinition `json:"nodes"                 validate:"required,min=1,dive,required"`
	EntryNodes []string          `json:"entry_nodes,omitempty"`
	Variables  map[string]any    `json:"variables,omitempty"`
}

// Node returns the definition of the node with the given ID.
func (g *GraphDefinition) Node(id string) (*NodeDefinition, bool) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}
