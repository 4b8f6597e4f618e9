package graph

import "github.com/JudgeZ/stepflow/pkg/models"

// DependencyIndex maps a node ID to the IDs of the nodes that depend on it.
// It answers "who must be re-evaluated when this node settles".
type DependencyIndex map[string][]string

// BuildDependencyIndex builds the reverse-dependency map for a validated
// graph. Pure function of the definition; built once per run.
func BuildDependencyIndex(nodes []*models.NodeDefinition) DependencyIndex {
	index := make(DependencyIndex, len(nodes))

	for _, node := range nodes {
		seen := make(map[string]bool, len(node.Dependencies))

		for _, dep := range node.Dependencies {
			if seen[dep] {
				continue
			}

			seen[dep] = true
			index[dep] = append(index[dep], node.ID)
		}
	}

	return index
}

// Dependents returns the nodes that list the given node as a dependency.
func (i DependencyIndex) Dependents(nodeID string) []string {
	return i[nodeID]
}
