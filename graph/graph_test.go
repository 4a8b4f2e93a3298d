package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/xplor/graph"
)

const collection = "test"

// newTriangle builds 0 -> 1, 0 -> 2, 1 -> 2 over keyword nodes.
func newTriangle(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.Empty(collection, nil)
	kw := graph.TypeUUID(collection, graph.TypeKeywords)
	for _, label := range []string{"a", "b", "c"} {
		_, err := g.AddNode(graph.Node{Type: kw, Properties: map[string]any{"label": label}})
		require.NoError(t, err)
	}
	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		_, err := g.AddEdge(graph.Edge{Source: pair[0], Target: pair[1], Type: kw})
		require.NoError(t, err)
	}
	return g
}

func TestGraph_SequentialUUIDs(t *testing.T) {
	g := newTriangle(t)

	for i, n := range g.Nodes() {
		assert.Equal(t, i, n.Index)
	}
	assert.Equal(t, "0", g.Node(0).UUID)
	assert.Equal(t, "2", g.Node(2).UUID)
	assert.Equal(t, "3", g.NextNodeUUID())
	assert.Equal(t, "2", g.Edge(2).UUID)
	assert.Equal(t, "3", g.NextEdgeUUID())
}

func TestGraph_NextUUIDSkipsTakenValues(t *testing.T) {
	g := graph.New(collection)

	_, err := g.AddNode(graph.Node{UUID: "0"})
	require.NoError(t, err)
	_, err = g.AddNode(graph.Node{UUID: "1"})
	require.NoError(t, err)

	n, err := g.AddNode(graph.Node{})
	require.NoError(t, err)
	assert.Equal(t, "2", n.UUID)

	_, err = g.AddNode(graph.Node{UUID: "2"})
	assert.ErrorIs(t, err, graph.ErrDuplicateUUID)
}

func TestGraph_AddEdgeValidatesEndpoints(t *testing.T) {
	g := graph.New(collection)
	_, err := g.AddNode(graph.Node{})
	require.NoError(t, err)

	_, err = g.AddEdge(graph.Edge{Source: 0, Target: 4})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	_, err = g.AddEdge(graph.Edge{Source: -1, Target: 0})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.Equal(t, 0, g.EdgeCount())
}

func TestGraph_IncidentAndEdgeBetween(t *testing.T) {
	g := newTriangle(t)

	assert.ElementsMatch(t, []int{0, 1}, g.Incident(0))
	assert.ElementsMatch(t, []int{0, 2}, g.Incident(1))
	assert.ElementsMatch(t, []int{1, 2}, g.Incident(2))
	assert.Nil(t, g.Incident(9))

	e, ok := g.EdgeBetween(0, 1)
	require.True(t, ok)
	assert.Equal(t, 0, e.Index)

	_, ok = g.EdgeBetween(1, 0)
	assert.False(t, ok, "edges are directed")
}

func TestGraph_SelfLoopListedOnce(t *testing.T) {
	g := graph.New(collection)
	_, err := g.AddNode(graph.Node{})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{Source: 0, Target: 0})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, g.Incident(0))
}

func TestGraph_PropertiesAreCopied(t *testing.T) {
	g := graph.New(collection)
	props := map[string]any{"label": "x"}
	n, err := g.AddNode(graph.Node{Properties: props})
	require.NoError(t, err)

	props["label"] = "y"
	assert.Equal(t, "x", n.Label())
}

func TestGraph_Lookup(t *testing.T) {
	g := newTriangle(t)

	assert.Equal(t, []int{0, 2}, g.Lookup([]string{"2", "0", "missing", "2"}))
	assert.Empty(t, g.Lookup(nil))
}

func TestGraph_Subgraph(t *testing.T) {
	g := newTriangle(t)
	g.Starred = []string{"2"}

	sub := g.Subgraph([]int{2, 0, 7, 0})

	require.Equal(t, 2, sub.NodeCount())
	assert.Equal(t, "0", sub.Node(0).UUID)
	assert.Equal(t, "2", sub.Node(1).UUID)
	assert.Equal(t, 1, sub.Node(1).Index)

	require.Equal(t, 1, sub.EdgeCount())
	e := sub.Edge(0)
	assert.Equal(t, "1", e.UUID, "edge 0 -> 2 keeps its uuid")
	assert.Equal(t, 0, e.Source)
	assert.Equal(t, 1, e.Target)

	assert.Equal(t, []string{"2"}, sub.Starred)
	assert.Equal(t, 2, sub.Meta.NodeCount)
	assert.Equal(t, g.NodeTypes.Len(), sub.NodeTypes.Len())

	// Mutating the subgraph registries leaves the parent untouched.
	_, err := sub.NodeTypes.Register(graph.TypeDef{UUID: "new", Name: "new"})
	require.NoError(t, err)
	assert.False(t, g.NodeTypes.Has("new"))
}

func TestEdge_Weight(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float", 2.5, 2.5, true},
		{"int", 3, 3, true},
		{"numeric string", "4.5", 4.5, true},
		{"text", "heavy", 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := graph.Edge{Properties: map[string]any{"weight": tt.value}}
			got, ok := e.Weight()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := (&graph.Edge{}).Weight()
	assert.False(t, ok)
}

func TestEmpty_DefaultSchema(t *testing.T) {
	g := graph.Empty("cillex", nil)

	assert.Equal(t, 0, g.NodeCount())
	article := g.NodeTypes.ByName(graph.PrimaryName)
	require.NotNil(t, article)
	assert.Equal(t, "_cillex_article", article.UUID)
	assert.Equal(t, graph.PrimaryType("cillex"), article.UUID)
	assert.Contains(t, article.Properties, "id")

	for _, name := range []string{graph.TypeAuthors, graph.TypeRefBibAuthors, graph.TypeKeywords, graph.TypeCategories} {
		et := g.EdgeTypes.ByName(name)
		require.NotNil(t, et, name)
		assert.Equal(t, 1.0, et.Properties[graph.PropWeight])
	}
}

func TestEmpty_CustomSchema(t *testing.T) {
	schema := &graph.Schema{
		NodeTypes: []graph.TypeDef{{UUID: "n", Name: "note"}},
	}
	g := graph.Empty("c", schema)

	assert.Equal(t, 1, g.NodeTypes.Len())
	assert.Equal(t, 0, g.EdgeTypes.Len())
}

func TestGraph_GeneratedUUIDsIncrease(t *testing.T) {
	g := graph.New(collection)

	_, err := g.AddNode(graph.Node{UUID: "7"})
	require.NoError(t, err)
	n, err := g.AddNode(graph.Node{})
	require.NoError(t, err)
	assert.Equal(t, "8", n.UUID)

	_, err = g.AddNode(graph.Node{UUID: "3"})
	require.NoError(t, err)
	n, err = g.AddNode(graph.Node{})
	require.NoError(t, err)
	assert.Equal(t, "9", n.UUID, "a lower explicit UUID does not move the counter back")

	e, err := g.AddEdge(graph.Edge{UUID: "4", Source: 0, Target: 1})
	require.NoError(t, err)
	assert.Equal(t, "4", e.UUID)
	assert.Equal(t, "5", g.NextEdgeUUID())
}
