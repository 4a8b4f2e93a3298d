package extract

import (
	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/prox"
)

// Label is a candidate label of a cluster.
type Label struct {
	UUID  string  `json:"uuid"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// LabelOptions controls Labels.
type LabelOptions struct {
	// Count is the number of labels per cluster.
	Count int

	// Cut and Length bound the extraction run for each cluster.
	Cut    int
	Length int

	Weighting prox.Weighting
	Filter    *Filter
}

// DefaultLabelOptions returns 2 labels per cluster over an extraction of
// cut 300 and length 3.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{Count: 2, Cut: 300, Length: 3, Weighting: prox.Uniform}
}

// Labels names each cluster, given as a list of node UUIDs, after the
// non-primary nodes closest to its primary nodes. A cluster without primary
// nodes gets no label.
func Labels(g *graph.Graph, collection string, clusters [][]string, opts LabelOptions) ([][]Label, error) {
	primaryType := graph.PrimaryType(collection)
	out := make([][]Label, 0, len(clusters))

	for _, cluster := range clusters {
		labels := []Label{}

		var seeds []int
		for _, v := range g.Lookup(cluster) {
			if g.Node(v).Type == primaryType {
				seeds = append(seeds, v)
			}
		}
		if len(seeds) == 0 {
			out = append(out, labels)
			continue
		}

		ranked, err := Extract(g, seeds, Options{Cut: opts.Cut, Length: opts.Length, Weighting: opts.Weighting})
		if err != nil {
			return nil, err
		}
		for _, r := range ranked {
			if len(labels) >= opts.Count {
				break
			}
			n := g.Node(r.Node)
			if n.Type == primaryType {
				continue
			}
			if opts.Filter != nil {
				ok, err := opts.Filter.Match(g, collection, n, r.Score)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			labels = append(labels, Label{UUID: n.UUID, Label: n.Label(), Score: r.Score})
		}
		out = append(out, labels)
	}
	return out, nil
}
