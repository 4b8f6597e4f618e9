// Package graph validates plan definitions and derives the structures the
// engine schedules from: entry nodes and the reverse-dependency index.
package graph

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// Validate checks a definition against the structural rules, in order:
// field validation, non-empty graph, unique node IDs, known dependency
// references, acyclicity, and entry-node existence. When the definition does
// not list entry nodes explicitly they are derived as every node with no
// dependencies. The definition is returned unchanged apart from that
// derivation and must be treated as read-only afterwards.
func Validate(def *models.GraphDefinition) error {
	if len(def.Nodes) == 0 {
		return &EmptyGraphError{GraphID: def.ID}
	}

	if err := validator.New().Struct(def); err != nil {
		return fmt.Errorf("invalid graph definition %q: %w", def.ID, err)
	}

	nodes := make(map[string]*models.NodeDefinition, len(def.Nodes))
	for _, node := range def.Nodes {
		if _, exists := nodes[node.ID]; exists {
			return &DuplicateNodeError{NodeID: node.ID}
		}

		nodes[node.ID] = node
	}

	for _, node := range def.Nodes {
		for _, dep := range node.Dependencies {
			if _, exists := nodes[dep]; !exists {
				return &UnknownDependencyError{NodeID: node.ID, Dependency: dep}
			}
		}
	}

	if err := detectCycle(def.Nodes, nodes); err != nil {
		return err
	}

	if len(def.EntryNodes) == 0 {
		for _, node := range def.Nodes {
			if len(node.Dependencies) == 0 {
				def.EntryNodes = append(def.EntryNodes, node.ID)
			}
		}
	}

	if len(def.EntryNodes) == 0 {
		return &NoEntryNodesError{GraphID: def.ID}
	}

	return nil
}

type visitState uint8

const (
	unvisited visitState = iota
	onStack
	done
)

type frame struct {
	id   string
	next int
}

// detectCycle walks the dependency edges with an explicit stack. A back edge
// to a node still on the stack is a cycle; the offending edge is reported as
// a normal validation outcome, not a panic.
func detectCycle(ordered []*models.NodeDefinition, nodes map[string]*models.NodeDefinition) error {
	states := make(map[string]visitState, len(nodes))

	for _, start := range ordered {
		if states[start.ID] != unvisited {
			continue
		}

		stack := []frame{{id: start.ID}}
		states[start.ID] = onStack

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := nodes[top.id].Dependencies

			if top.next >= len(deps) {
				states[top.id] = done
				stack = stack[:len(stack)-1]

				continue
			}

			dep := deps[top.next]
			top.next++

			switch states[dep] {
			case onStack:
				return &CycleError{From: top.id, To: dep}
			case unvisited:
				states[dep] = onStack
				stack = append(stack, frame{id: dep})
			case done:
			}
		}
	}

	return nil
}
