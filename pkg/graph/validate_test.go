package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JudgeZ/stepflow/pkg/models"
	"github.com/JudgeZ/stepflow/pkg/testutil"
)

func TestValidate_EmptyGraph(t *testing.T) {
	def := &models.GraphDefinition{ID: "empty", Name: "Empty"}

	err := Validate(def)
	require.Error(t, err)

	var emptyErr *EmptyGraphError

	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "empty", emptyErr.GraphID)
}

func TestValidate_DuplicateNodeID(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a"),
		testutil.Node("a"),
	)

	err := Validate(def)
	require.Error(t, err)

	var dupErr *DuplicateNodeError

	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "a", dupErr.NodeID)
}

func TestValidate_UnknownDependency(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a", testutil.WithDependencies("ghost")),
	)

	err := Validate(def)
	require.Error(t, err)

	var unknownErr *UnknownDependencyError

	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "a", unknownErr.NodeID)
	assert.Equal(t, "ghost", unknownErr.Dependency)
}

func TestValidate_SelfLoop(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a", testutil.WithDependencies("a")),
	)

	err := Validate(def)
	require.Error(t, err)

	var cycleErr *CycleError

	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "a", cycleErr.From)
	assert.Equal(t, "a", cycleErr.To)
}

func TestValidate_TwoNodeCycle(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a", testutil.WithDependencies("b")),
		testutil.Node("b", testutil.WithDependencies("a")),
	)

	err := Validate(def)

	var cycleErr *CycleError

	require.ErrorAs(t, err, &cycleErr)
	assert.NotEmpty(t, cycleErr.From)
	assert.NotEmpty(t, cycleErr.To)
}

func TestValidate_ThreeNodeCycle(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a", testutil.WithDependencies("c")),
		testutil.Node("b", testutil.WithDependencies("a")),
		testutil.Node("c", testutil.WithDependencies("b")),
	)

	err := Validate(def)

	var cycleErr *CycleError

	require.ErrorAs(t, err, &cycleErr)

	edges := map[string]string{"a": "c", "b": "a", "c": "b"}
	assert.Equal(t, edges[cycleErr.From], cycleErr.To, "reported edge must exist in the graph")
}

func TestValidate_CycleBehindValidPrefix(t *testing.T) {
	// Nodes reachable from a clean entry node must not mask a cycle
	// elsewhere in the graph.
	def := testutil.Graph(
		testutil.Node("entry"),
		testutil.Node("x", testutil.WithDependencies("y")),
		testutil.Node("y", testutil.WithDependencies("x")),
	)

	var cycleErr *CycleError

	require.ErrorAs(t, Validate(def), &cycleErr)
}

func TestValidate_DerivesEntryNodes(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a"),
		testutil.Node("b"),
		testutil.Node("c", testutil.WithDependencies("a", "b")),
	)

	require.NoError(t, Validate(def))
	assert.ElementsMatch(t, []string{"a", "b"}, def.EntryNodes)
}

func TestValidate_KeepsExplicitEntryNodes(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a"),
		testutil.Node("b"),
	)
	def.EntryNodes = []string{"a"}

	require.NoError(t, Validate(def))
	assert.Equal(t, []string{"a"}, def.EntryNodes)
}

func TestValidate_FieldValidation(t *testing.T) {
	def := testutil.Graph(testutil.Node("a"))
	def.Nodes[0].Name = ""

	err := Validate(def)
	require.Error(t, err)

	var cycleErr *CycleError

	assert.False(t, errors.As(err, &cycleErr))
}

func TestValidate_AcceptsDiamond(t *testing.T) {
	def := testutil.Graph(
		testutil.Node("a"),
		testutil.Node("b", testutil.WithDependencies("a")),
		testutil.Node("c", testutil.WithDependencies("a")),
		testutil.Node("d", testutil.WithDependencies("b", "c")),
	)

	require.NoError(t, Validate(def))
	assert.Equal(t, []string{"a"}, def.EntryNodes)
}
