package graph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zero-day-ai/xplor/graph"
)

func TestRecomputeStats(t *testing.T) {
	g := newTriangle(t)
	g.Starred = []string{"0", "2"}
	g.Meta.Owner = "bob"
	g.RecomputeStats()

	kw := graph.TypeUUID(collection, graph.TypeKeywords)
	assert.Equal(t, 3, g.Meta.NodeCount)
	assert.Equal(t, 3, g.Meta.EdgeCount)
	assert.Equal(t, 2, g.Meta.StarCount)
	assert.Equal(t, map[string]int{kw: 3}, g.Meta.Stats.NodeTypes)
	assert.Equal(t, map[string]int{kw: 3}, g.Meta.Stats.EdgeTypes)
	assert.Equal(t, 3, g.NodeTypes.ByName(graph.TypeKeywords).Count)
	assert.Equal(t, 0, g.NodeTypes.ByName(graph.PrimaryName).Count)
	assert.Equal(t, "bob", g.Meta.Owner)
}

func TestComputeLineage(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	l := graph.ComputeLineage([]graph.Query{
		{Q: "graph", Source: "istex", Date: t0},
		{Q: "graph", Source: "rdf"},
		{Q: "network", Date: t1},
	})

	assert.Equal(t, 3, l.Queries)
	assert.Equal(t, 2, l.Distinct)
	assert.Equal(t, map[string]int{"istex": 1, "rdf": 1, "unknown": 1}, l.Sources)
	assert.Equal(t, "graph", l.First)
	assert.Equal(t, t0, l.FirstAt)
	assert.Equal(t, "network", l.Last)
	assert.Equal(t, t1, l.LastAt)

	empty := graph.ComputeLineage(nil)
	assert.Zero(t, empty.Queries)
	assert.Nil(t, empty.Sources)
}
