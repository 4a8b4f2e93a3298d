package prox_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/prox"
)

const gid = "demo"

// star builds node 0 linked to nodes 1 and 2, plus node 3 linked to 2.
func star(t *testing.T, edgeType string, weight any) *graph.Graph {
	t.Helper()
	g := graph.Empty(gid, nil)
	for i := 0; i < 4; i++ {
		_, err := g.AddNode(graph.Node{Type: graph.TypeUUID(gid, graph.TypeKeywords)})
		require.NoError(t, err)
	}
	for _, p := range [][2]int{{0, 1}, {0, 2}, {3, 2}} {
		props := map[string]any{}
		if weight != nil {
			props["weight"] = weight
		}
		_, err := g.AddEdge(graph.Edge{Source: p[0], Target: p[1], Type: edgeType, Properties: props})
		require.NoError(t, err)
	}
	return g
}

func TestPropagate_OneHopUniform(t *testing.T) {
	g := star(t, graph.TypeUUID(gid, graph.TypeKeywords), nil)

	scores, err := prox.Propagate(g, map[int]float64{0: 1.0}, 1, prox.Uniform.Neighbours())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, scores[0], 1.0)
	assert.Equal(t, 1.0, scores[1])
	assert.Equal(t, 1.0, scores[2])
	assert.NotContains(t, scores, 3, "node 3 is two hops away")
}

func TestPropagate_Accumulates(t *testing.T) {
	g := star(t, graph.TypeUUID(gid, graph.TypeKeywords), nil)

	scores, err := prox.Propagate(g, map[int]float64{0: 1.0}, 2, nil)
	require.NoError(t, err)

	// Round 1: {0:1, 1:1, 2:1}.
	// Round 2: 0 -> {0:1,1:1,2:1}; 1 -> {1:1,0:1}; 2 -> {2:1,0:1,3:1}.
	assert.Equal(t, prox.Scores{0: 1 + 1 + 3, 1: 1 + 2, 2: 1 + 2, 3: 1}, scores)
}

func TestPropagate_ZeroHops(t *testing.T) {
	g := star(t, "", nil)

	scores, err := prox.Propagate(g, map[int]float64{1: 0.5}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, prox.Scores{1: 0.5}, scores)
}

func TestPropagate_EmptySeeds(t *testing.T) {
	g := star(t, "", nil)

	scores, err := prox.Propagate(g, nil, 3, nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestPropagate_Validation(t *testing.T) {
	g := star(t, "", nil)

	_, err := prox.Propagate(g, map[int]float64{0: 1}, -1, nil)
	assert.ErrorIs(t, err, prox.ErrInvalidHops)

	_, err = prox.Propagate(g, map[int]float64{9: 1}, 1, nil)
	assert.ErrorIs(t, err, prox.ErrInvalidSeed)

	_, err = prox.Propagate(g, map[int]float64{0: -1}, 1, nil)
	assert.ErrorIs(t, err, prox.ErrInvalidSeed)
}

func TestPropagate_ZeroRule(t *testing.T) {
	g := star(t, graph.TypeUUID(gid, graph.TypeKeywords), nil)

	scores, err := prox.Propagate(g, map[int]float64{0: 1}, 3, prox.Weighting{prox.RuleZero}.Neighbours())
	require.NoError(t, err)

	// Only the self loop carries weight; neighbours are reached with 0.
	assert.Equal(t, 4.0, scores[0])
	assert.Contains(t, scores, 1)
	assert.Equal(t, 0.0, scores[1])
	assert.NotContains(t, scores, 3, "zero frontier entries are not expanded")
}

func TestPropagate_WeightRule(t *testing.T) {
	g := star(t, "", 0.5)

	scores, err := prox.Propagate(g, map[int]float64{0: 2}, 1, prox.Weighting{prox.RuleWeight}.Neighbours())
	require.NoError(t, err)
	assert.Equal(t, prox.Scores{0: 4, 1: 1, 2: 1}, scores)
}

func TestPropagate_Deterministic(t *testing.T) {
	g := star(t, graph.TypeUUID(gid, graph.TypeKeywords), 0.1)
	w := prox.Weighting{prox.RuleWeight}

	first, err := prox.Propagate(g, map[int]float64{0: 0.3, 3: 0.7}, 4, w.Neighbours())
	require.NoError(t, err)
	firstTop, err := prox.Sortcut(first, 10)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := prox.Propagate(g, map[int]float64{0: 0.3, 3: 0.7}, 4, w.Neighbours())
		require.NoError(t, err)
		top, err := prox.Sortcut(again, 10)
		require.NoError(t, err)
		require.Equal(t, firstTop, top)
	}
}

func TestSortcut(t *testing.T) {
	scores := prox.Scores{0: 5.0, 1: 5.0, 2: 3.0}

	top, err := prox.Sortcut(scores, 2)
	require.NoError(t, err)
	assert.Equal(t, []prox.Scored{{Node: 0, Score: 5.0}, {Node: 1, Score: 5.0}}, top)

	all, err := prox.Sortcut(scores, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 2, all[2].Node)

	none, err := prox.Sortcut(scores, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = prox.Sortcut(scores, -1)
	assert.ErrorIs(t, err, prox.ErrInvalidCut)
}

func TestSortcut_TiesByAscendingIndex(t *testing.T) {
	scores := prox.Scores{9: 1, 4: 1, 7: 2, 1: 1}

	top, err := prox.Sortcut(scores, 3)
	require.NoError(t, err)
	assert.Equal(t, []prox.Scored{{Node: 7, Score: 2}, {Node: 1, Score: 1}, {Node: 4, Score: 1}}, top)
}

func TestPropagate_InvalidEdgeWeights(t *testing.T) {
	uniform, err := prox.Propagate(star(t, "", nil), map[int]float64{0: 1}, 2, nil)
	require.NoError(t, err)

	for _, weight := range []any{"NaN", "-3", "+Inf", math.Inf(1)} {
		t.Run(fmt.Sprint(weight), func(t *testing.T) {
			g := star(t, "", weight)
			scores, err := prox.Propagate(g, map[int]float64{0: 1}, 2, prox.Weighting{prox.RuleWeight}.Neighbours())
			require.NoError(t, err)

			assert.Equal(t, uniform, scores)
			for v, s := range scores {
				assert.GreaterOrEqual(t, s, 0.0, "node %d", v)
			}
		})
	}
}

func TestPropagate_InfiniteSeed(t *testing.T) {
	_, err := prox.Propagate(star(t, "", nil), map[int]float64{0: math.Inf(1)}, 1, nil)
	assert.ErrorIs(t, err, prox.ErrInvalidSeed)
}

func TestSortcut_NaNRanksLast(t *testing.T) {
	scores := prox.Scores{0: math.NaN(), 1: 5, 2: 5, 3: 3, 4: 4, 5: 1}

	for i := 0; i < 50; i++ {
		top, err := prox.Sortcut(scores, 3)
		require.NoError(t, err)
		require.Equal(t, []prox.Scored{{Node: 1, Score: 5}, {Node: 2, Score: 5}, {Node: 4, Score: 4}}, top)
	}

	all, err := prox.Sortcut(scores, 10)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, []prox.Scored{{Node: 1, Score: 5}, {Node: 2, Score: 5}, {Node: 4, Score: 4}, {Node: 3, Score: 3}, {Node: 5, Score: 1}}, all[:5])
	assert.Equal(t, 0, all[5].Node)
	assert.True(t, math.IsNaN(all[5].Score))

	twoNaN, err := prox.Sortcut(prox.Scores{7: math.NaN(), 2: math.NaN(), 4: 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 7}, []int{twoNaN[0].Node, twoNaN[1].Node, twoNaN[2].Node})
}
