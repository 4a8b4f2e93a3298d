package prox

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/zero-day-ai/xplor/graph"
)

var (
	// ErrInvalidHops is returned for a negative hop count.
	ErrInvalidHops = errors.New("prox: invalid hop count")

	// ErrInvalidCut is returned for a negative cut.
	ErrInvalidCut = errors.New("prox: invalid cut")

	// ErrInvalidSeed is returned for a seed outside the graph or with a
	// negative or non-finite weight.
	ErrInvalidSeed = errors.New("prox: invalid seed")

	// ErrUnknownRule is returned by ParseWeighting.
	ErrUnknownRule = errors.New("prox: unknown weighting rule")
)

// Scores maps node indices to their accumulated relevance.
type Scores map[int]float64

// Scored is one ranked node.
type Scored struct {
	Node  int     `json:"node"`
	Score float64 `json:"score"`
}

// Propagate diffuses the seed weights over g for exactly hops rounds.
//
// Round h spreads the weight received in round h-1: every node v carrying
// weight x gives x*w to each neighbour listed by neighbours, self loop
// included. What a node receives is added to its accumulated score, so a
// seed starts at its initial weight and every path of length <= hops adds
// to the nodes it reaches. Nodes never reached are absent from the result;
// a reached node may score 0. Frontier nodes carrying 0 are not expanded.
//
// A nil neighbours function means Uniform.Neighbours(). Empty seeds yield
// an empty map.
func Propagate(g *graph.Graph, seeds map[int]float64, hops int, neighbours NeighbourFunc) (Scores, error) {
	if hops < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHops, hops)
	}
	for v, w := range seeds {
		if g.Node(v) == nil {
			return nil, fmt.Errorf("%w: node %d not in graph", ErrInvalidSeed, v)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 1) {
			return nil, fmt.Errorf("%w: node %d has weight %v", ErrInvalidSeed, v, w)
		}
	}
	if neighbours == nil {
		neighbours = Uniform.Neighbours()
	}

	acc := make(Scores, len(seeds))
	frontier := make(map[int]float64, len(seeds))
	for v, w := range seeds {
		acc[v] = w
		frontier[v] = w
	}

	for h := 0; h < hops && len(frontier) > 0; h++ {
		next := make(map[int]float64)
		// Sorted so that float sums are reproducible.
		for _, v := range sortedKeys(frontier) {
			x := frontier[v]
			if x == 0 {
				continue
			}
			for _, nb := range neighbours(g, v) {
				next[nb.Node] += x * nb.Weight
			}
		}
		for v, x := range next {
			acc[v] += x
		}
		frontier = next
	}
	return acc, nil
}

// Sortcut returns the k highest scores, best first. Ties are broken by
// ascending node index. NaN scores rank after every number.
func Sortcut(scores Scores, k int) ([]Scored, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCut, k)
	}
	ranked := make([]Scored, 0, len(scores))
	for v, s := range scores {
		ranked = append(ranked, Scored{Node: v, Score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].Score, ranked[j].Score
		if nanA, nanB := math.IsNaN(a), math.IsNaN(b); nanA || nanB {
			if nanA != nanB {
				return nanB
			}
		} else if a != b {
			return a > b
		}
		return ranked[i].Node < ranked[j].Node
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
