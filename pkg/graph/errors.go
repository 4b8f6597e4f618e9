package graph

import "fmt"

// EmptyGraphError reports a definition with no nodes.
type EmptyGraphError struct {
	GraphID string
}

func (e *EmptyGraphError) Error() string {
	return fmt.Sprintf("graph %q contains no nodes", e.GraphID)
}

// DuplicateNodeError reports two nodes sharing an ID.
type DuplicateNodeError struct {
	NodeID string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node ID %q", e.NodeID)
}

// UnknownDependencyError reports a dependency edge pointing outside the graph.
type UnknownDependencyError struct {
	NodeID     string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("node %q depends on unknown node %q", e.NodeID, e.Dependency)
}

// CycleError reports a dependency cycle, naming one edge on it.
type CycleError struct {
	From string
	To   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %q -> %q closes a cycle", e.From, e.To)
}

// NoEntryNodesError reports a graph where every node has dependencies. Rule
// ordering makes this unreachable for a graph that passed cycle detection;
// it is kept as a defensive invariant.
type NoEntryNodesError struct {
	GraphID string
}

func (e *NoEntryNodesError) Error() string {
	return fmt.Sprintf("graph %q has no entry nodes", e.GraphID)
}
