package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/xplor/extract"
	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/prox"
)

const gid = "demo"

// corpus builds two articles sharing the keyword "graph", article A1 also
// tagged "tree" and article A2 written by "ada". A far node "leaf" hangs off
// "tree".
//
//	0 A1 --kw--> 2 graph <--kw-- 1 A2
//	0 A1 --kw--> 3 tree  --kw--> 5 leaf
//	1 A2 --au--> 4 ada
func corpus(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.Empty(gid, nil)
	article := graph.PrimaryType(gid)
	kw := graph.TypeUUID(gid, graph.TypeKeywords)
	au := graph.TypeUUID(gid, graph.TypeAuthors)

	add := func(typ string, props map[string]any) {
		_, err := g.AddNode(graph.Node{Type: typ, Properties: props})
		require.NoError(t, err)
	}
	add(article, map[string]any{"id": "A1", "label": "A1"})
	add(article, map[string]any{"id": "A2", "label": "A2"})
	add(kw, map[string]any{"label": "graph"})
	add(kw, map[string]any{"label": "tree"})
	add(au, map[string]any{"label": "ada"})
	add(kw, map[string]any{"label": "leaf"})

	link := func(s, d int, typ string) {
		_, err := g.AddEdge(graph.Edge{Source: s, Target: d, Type: typ})
		require.NoError(t, err)
	}
	link(0, 2, kw)
	link(1, 2, kw)
	link(0, 3, kw)
	link(1, 4, au)
	link(3, 5, kw)
	return g
}

func TestExtract(t *testing.T) {
	g := corpus(t)

	ranked, err := extract.Extract(g, []int{0}, extract.Options{Cut: 3, Length: 1})
	require.NoError(t, err)

	// A1 self loop: 2, neighbours graph and tree: 1 each.
	assert.Equal(t, []prox.Scored{{Node: 0, Score: 2}, {Node: 2, Score: 1}, {Node: 3, Score: 1}}, ranked)

	_, err = extract.Extract(g, []int{0}, extract.Options{Cut: -1, Length: 1})
	assert.ErrorIs(t, err, prox.ErrInvalidCut)
}

func TestExtract_DefaultOptions(t *testing.T) {
	opts := extract.DefaultOptions()
	assert.Equal(t, 50, opts.Cut)
	assert.Equal(t, 3, opts.Length)
	assert.Equal(t, prox.Uniform, opts.Weighting)
}

func TestSelect_PinnedNodeIsKept(t *testing.T) {
	g := corpus(t)

	// "leaf" is two hops from A1 and never makes the top 1.
	sub, scores, err := extract.Select(g, gid, extract.Selection{
		Seeds:  []int{0},
		Pinned: []int{5},
		Cut:    1,
		Length: 1,
	})
	require.NoError(t, err)

	require.Equal(t, 2, sub.NodeCount())
	assert.Equal(t, "0", sub.Node(0).UUID)
	assert.Equal(t, "5", sub.Node(1).UUID)
	assert.Equal(t, []prox.Scored{{Node: 0, Score: 2}, {Node: 5, Score: 1}}, scores)
}

func TestSelect_PinnedNodeAlsoRanked(t *testing.T) {
	g := corpus(t)

	sub, scores, err := extract.Select(g, gid, extract.Selection{
		Seeds:  []int{0},
		Pinned: []int{0},
		Cut:    2,
		Length: 1,
	})
	require.NoError(t, err)

	// A1 is pinned so the two ranked slots go to graph and tree.
	assert.Equal(t, 3, sub.NodeCount())
	assert.Equal(t, []prox.Scored{{Node: 2, Score: 1}, {Node: 3, Score: 1}, {Node: 0, Score: 1}}, scores)
}

func TestSelect_AllPrimary(t *testing.T) {
	g := corpus(t)

	sub, _, err := extract.Select(g, gid, extract.Selection{
		Seeds:      []int{5},
		AllPrimary: true,
		Cut:        1,
		Length:     1,
	})
	require.NoError(t, err)

	// A1, A2 and graph all score 2; A1 wins the single slot on index and A2
	// is added back as a primary node.
	var labels []string
	for _, n := range sub.Nodes() {
		labels = append(labels, n.Label())
	}
	assert.Equal(t, []string{"A1", "A2"}, labels)
}

func TestSelect_InducedEdges(t *testing.T) {
	g := corpus(t)

	sub, _, err := extract.Select(g, gid, extract.Selection{Seeds: []int{0}, Cut: 3, Length: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, sub.NodeCount())
	assert.Equal(t, 2, sub.EdgeCount())
	assert.Equal(t, 3, sub.Meta.NodeCount)
}

func TestSelect_Validation(t *testing.T) {
	g := corpus(t)

	_, _, err := extract.Select(g, gid, extract.Selection{Seeds: []int{0}, Cut: -1, Pinned: []int{1, 2}})
	assert.ErrorIs(t, err, prox.ErrInvalidCut)

	_, _, err = extract.Select(g, gid, extract.Selection{Seeds: []int{0}, Cut: 1, Pinned: []int{42}})
	assert.ErrorIs(t, err, prox.ErrInvalidSeed)

	_, _, err = extract.Select(g, gid, extract.Selection{Seeds: []int{0}, Cut: 1, Length: -2})
	assert.ErrorIs(t, err, prox.ErrInvalidHops)
}

func TestSelect_EmptySeeds(t *testing.T) {
	g := corpus(t)

	sub, scores, err := extract.Select(g, gid, extract.Selection{Cut: 5, Length: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, sub.NodeCount())
	assert.Empty(t, scores)
}

func TestSelect_Filter(t *testing.T) {
	g := corpus(t)
	f, err := extract.NewFilter(`type != "keywords"`)
	require.NoError(t, err)

	sub, _, err := extract.Select(g, gid, extract.Selection{Seeds: []int{1}, Cut: 10, Length: 1, Filter: f})
	require.NoError(t, err)

	for _, n := range sub.Nodes() {
		assert.NotEqual(t, graph.TypeUUID(gid, graph.TypeKeywords), n.Type)
	}
	assert.Equal(t, 2, sub.NodeCount(), "A2 and ada")
}
