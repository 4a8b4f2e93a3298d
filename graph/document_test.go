package graph_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/xplor/graph"
	"gopkg.in/yaml.v3"
)

func TestDocument_JSONRoundTrip(t *testing.T) {
	g := newTriangle(t)
	g.Starred = []string{"1"}
	g.Queries = append(g.Queries, graph.Query{ID: "q1", Q: "graphs", Source: "istex", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	g.Meta.Owner = "alice"
	g.RecomputeStats()

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "pinned_nodes")
	assert.Contains(t, raw, "provenance_log")

	var decoded graph.Graph
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, collection, decoded.Collection)
	assert.Equal(t, g.NodeCount(), decoded.NodeCount())
	assert.Equal(t, g.EdgeCount(), decoded.EdgeCount())
	assert.Equal(t, []string{"1"}, decoded.Starred)
	require.Len(t, decoded.Queries, 1)
	assert.Equal(t, "graphs", decoded.Queries[0].Q)
	assert.Equal(t, "alice", decoded.Meta.Owner)
	assert.Equal(t, g.Meta.Stats, decoded.Meta.Stats)

	e, ok := decoded.EdgeByUUID("2")
	require.True(t, ok)
	assert.Equal(t, "1", decoded.Node(e.Source).UUID)
	assert.Equal(t, "2", decoded.Node(e.Target).UUID)

	// Sequences continue after the decoded content.
	assert.Equal(t, "3", decoded.NextNodeUUID())
	assert.Equal(t, "3", decoded.NextEdgeUUID())
}

func TestDocument_YAML(t *testing.T) {
	src := `
collection: demo
node_types:
  - uuid: _demo_article
    name: article
    properties: {id: "", label: ""}
edge_types:
  - uuid: _demo_keywords
    name: keywords
    properties: {weight: 1.0}
nodes:
  - uuid: a
    type_uuid: _demo_article
    properties: {id: A1, label: First}
  - uuid: b
    type_uuid: _demo_article
    properties: {id: A2, label: Second}
edges:
  - uuid: e
    type_uuid: _demo_keywords
    source_uuid: a
    target_uuid: b
query:
  id: q
  q: first second
`
	var doc graph.Document
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	g, err := graph.FromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	require.NotNil(t, g.Query)
	assert.Equal(t, "first second", g.Query.Q)
	assert.Equal(t, 2, g.NodeTypes.ByName("article").Count)

	n, ok := g.NodeByUUID("a")
	require.True(t, ok)
	assert.Equal(t, "First", n.Label())
}

func TestFromDocument_Invalid(t *testing.T) {
	article := graph.TypeDef{UUID: "t", Name: "article"}

	tests := []struct {
		name string
		doc  graph.Document
	}{
		{
			name: "node without uuid",
			doc: graph.Document{
				NodeTypes: []graph.TypeDef{article},
				Nodes:     []graph.NodeRecord{{TypeUUID: "t"}},
			},
		},
		{
			name: "duplicate node uuid",
			doc: graph.Document{
				Nodes: []graph.NodeRecord{{UUID: "a"}, {UUID: "a"}},
			},
		},
		{
			name: "dangling edge",
			doc: graph.Document{
				Nodes: []graph.NodeRecord{{UUID: "a"}},
				Edges: []graph.EdgeRecord{{UUID: "e", SourceUUID: "a", TargetUUID: "zz"}},
			},
		},
		{
			name: "conflicting type uuid",
			doc: graph.Document{
				NodeTypes: []graph.TypeDef{article, {UUID: "t", Name: "other"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.FromDocument(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, graph.ErrInvalidDocument)
		})
	}
}

func TestDocument_IsDetached(t *testing.T) {
	g := newTriangle(t)
	doc := g.Document()

	doc.Nodes[0].Properties["label"] = "changed"
	doc.Pinned = append(doc.Pinned, "0")

	assert.Equal(t, "a", g.Node(0).Label())
	assert.Empty(t, g.Starred)
}

func TestFromDocument_UUIDCounterSkipsGaps(t *testing.T) {
	g, err := graph.FromDocument(graph.Document{
		Nodes: []graph.NodeRecord{{UUID: "0"}, {UUID: "5"}},
		Edges: []graph.EdgeRecord{{UUID: "4", SourceUUID: "0", TargetUUID: "5"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "6", g.NextNodeUUID())
	assert.Equal(t, "5", g.NextEdgeUUID())

	named, err := graph.FromDocument(graph.Document{
		Nodes: []graph.NodeRecord{{UUID: "a"}, {UUID: "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", named.NextNodeUUID())
}
