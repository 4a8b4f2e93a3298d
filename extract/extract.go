package extract

import (
	"fmt"

	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/prox"
)

// Default extraction bounds.
const (
	DefaultCut    = 50
	DefaultLength = 3
)

// Options controls a proximity extraction.
type Options struct {
	// Cut is the number of ranked nodes kept.
	Cut int

	// Length is the number of propagation rounds.
	Length int

	// Weighting selects the neighbour weights. Empty means uniform.
	Weighting prox.Weighting
}

// DefaultOptions returns cut 50, length 3, uniform weighting.
func DefaultOptions() Options {
	return Options{Cut: DefaultCut, Length: DefaultLength, Weighting: prox.Uniform}
}

// Extract ranks the nodes of g by proximity to seeds, each seed starting
// with weight 1, and keeps the opts.Cut best.
func Extract(g *graph.Graph, seeds []int, opts Options) ([]prox.Scored, error) {
	scores, err := propagate(g, seeds, opts)
	if err != nil {
		return nil, err
	}
	return prox.Sortcut(scores, opts.Cut)
}

func propagate(g *graph.Graph, seeds []int, opts Options) (prox.Scores, error) {
	if opts.Cut < 0 {
		return nil, fmt.Errorf("%w: %d", prox.ErrInvalidCut, opts.Cut)
	}
	pz := make(map[int]float64, len(seeds))
	for _, v := range seeds {
		pz[v] = 1
	}
	return prox.Propagate(g, pz, opts.Length, opts.Weighting.Neighbours())
}
