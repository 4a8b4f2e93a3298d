package extract

import (
	"fmt"

	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/prox"
)

// Selection describes a subgraph to extract for presentation.
type Selection struct {
	// Seeds are the node indices proximity is computed from. Ignored when
	// AllPrimary is set.
	Seeds []int

	// Pinned nodes are always part of the result, whatever their rank.
	Pinned []int

	// Cut is the number of ranked nodes kept besides the pinned ones.
	Cut int

	// AllPrimary seeds the ranking with every primary content node and adds
	// them all to the result.
	AllPrimary bool

	Length    int
	Weighting prox.Weighting

	// Filter, when set, drops ranked candidates it rejects. Pinned and
	// primary nodes added by AllPrimary are not filtered.
	Filter *Filter
}

// Select ranks the nodes of g and returns the subgraph induced on the best
// Cut of them plus the pinned nodes, together with the score of every kept
// node. Pinned nodes are reported with score 1, as are primary nodes added by
// AllPrimary that were not ranked.
func Select(g *graph.Graph, collection string, s Selection) (*graph.Graph, []prox.Scored, error) {
	if s.Cut < 0 {
		return nil, nil, fmt.Errorf("%w: %d", prox.ErrInvalidCut, s.Cut)
	}
	for _, v := range s.Pinned {
		if g.Node(v) == nil {
			return nil, nil, fmt.Errorf("%w: pinned node %d not in graph", prox.ErrInvalidSeed, v)
		}
	}

	primary := g.NodesOfType(graph.PrimaryType(collection))
	seeds := s.Seeds
	if s.AllPrimary {
		seeds = primary
	}

	scores, err := propagate(g, seeds, Options{Cut: s.Cut, Length: s.Length, Weighting: s.Weighting})
	if err != nil {
		return nil, nil, err
	}
	if s.Filter != nil {
		if err := s.Filter.apply(g, collection, scores); err != nil {
			return nil, nil, err
		}
	}

	ranked, err := prox.Sortcut(scores, s.Cut+len(s.Pinned))
	if err != nil {
		return nil, nil, err
	}

	pinned := make(map[int]bool, len(s.Pinned))
	for _, v := range s.Pinned {
		pinned[v] = true
	}

	kept := make([]prox.Scored, 0, s.Cut+len(s.Pinned))
	for _, r := range ranked {
		if pinned[r.Node] {
			continue
		}
		if len(kept) == s.Cut {
			break
		}
		kept = append(kept, r)
	}

	in := make(map[int]bool, cap(kept))
	for _, r := range kept {
		in[r.Node] = true
	}
	for _, v := range s.Pinned {
		if !in[v] {
			kept = append(kept, prox.Scored{Node: v, Score: 1})
			in[v] = true
		}
	}
	if s.AllPrimary {
		for _, v := range primary {
			if !in[v] {
				kept = append(kept, prox.Scored{Node: v, Score: 1})
				in[v] = true
			}
		}
	}

	indices := make([]int, len(kept))
	for i, r := range kept {
		indices[i] = r.Node
	}
	return g.Subgraph(indices), kept, nil
}
