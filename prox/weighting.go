package prox

import (
	"fmt"
	"math"
	"strings"

	"github.com/zero-day-ai/xplor/graph"
)

// Boost is the contribution of an edge matched by a type boost rule.
const Boost = 5.0

// Rule names one neighbour weighting rule.
type Rule string

// Rules in evaluation order. When several rules match the same edge the
// last one wins.
const (
	// RuleZero gives every neighbour weight 0: only the self loop counts.
	RuleZero Rule = "0"

	// RuleUniform gives every neighbour weight 1.
	RuleUniform Rule = "1"

	// RuleWeight uses the numeric "weight" property of the edge.
	RuleWeight Rule = "weight"

	// RuleAuthors boosts authorship edges.
	RuleAuthors Rule = "auteurs"

	// RuleRefBibAuthors boosts bibliographic authorship edges.
	RuleRefBibAuthors Rule = "refBibAuteurs"

	// RuleKeywords boosts keyword edges.
	RuleKeywords Rule = "keywords"

	// RuleCategories boosts category edges.
	RuleCategories Rule = "categories"
)

var ruleOrder = []Rule{
	RuleZero,
	RuleUniform,
	RuleWeight,
	RuleAuthors,
	RuleRefBibAuthors,
	RuleKeywords,
	RuleCategories,
}

// Weighting is a set of rules. The order of the rules in the slice does not
// matter; they are always evaluated in the fixed order above. An empty
// weighting is uniform.
type Weighting []Rule

// Uniform is the default weighting.
var Uniform = Weighting{RuleUniform}

// ParseWeighting converts rule names into a Weighting.
func ParseWeighting(names []string) (Weighting, error) {
	w := make(Weighting, 0, len(names))
	for _, name := range names {
		r := Rule(strings.TrimSpace(name))
		if !r.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
		}
		w = append(w, r)
	}
	return w, nil
}

// Valid reports whether r is a known rule.
func (r Rule) Valid() bool {
	for _, known := range ruleOrder {
		if r == known {
			return true
		}
	}
	return false
}

// Has reports whether w contains r.
func (w Weighting) Has(r Rule) bool {
	for _, x := range w {
		if x == r {
			return true
		}
	}
	return false
}

// Strings returns the rule names.
func (w Weighting) Strings() []string {
	out := make([]string, len(w))
	for i, r := range w {
		out[i] = string(r)
	}
	return out
}

// Neighbour is a weighted neighbour of a node.
type Neighbour struct {
	Node   int
	Weight float64
}

// NeighbourFunc lists the weighted neighbours of node v in g.
type NeighbourFunc func(g *graph.Graph, v int) []Neighbour

// Neighbours returns the NeighbourFunc of w. The list of a node starts with
// its self loop of weight 1, followed by one entry per incident edge in
// either direction.
func (w Weighting) Neighbours() NeighbourFunc {
	return func(g *graph.Graph, v int) []Neighbour {
		incident := g.Incident(v)
		out := make([]Neighbour, 0, len(incident)+1)
		out = append(out, Neighbour{Node: v, Weight: 1})
		for _, ei := range incident {
			e := g.Edge(ei)
			out = append(out, Neighbour{Node: e.Other(v), Weight: w.edgeWeight(e)})
		}
		return out
	}
}

func (w Weighting) edgeWeight(e *graph.Edge) float64 {
	weight := 1.0
	if len(w) == 0 {
		return weight
	}

	if w.Has(RuleZero) {
		weight = 0
	}
	if w.Has(RuleUniform) {
		weight = 1
	}
	if w.Has(RuleWeight) {
		// Negative and non-finite weights count as missing.
		if v, ok := e.Weight(); ok && v >= 0 && !math.IsInf(v, 1) {
			weight = v
		}
	}
	if w.Has(RuleAuthors) && strings.Contains(strings.ToLower(e.Type), "_auteurs") {
		weight = Boost
	}
	if w.Has(RuleRefBibAuthors) && strings.Contains(e.Type, "_refBibAuteurs") {
		weight = Boost
	}
	if w.Has(RuleKeywords) && strings.Contains(e.Type, "keywords") {
		weight = Boost
	}
	if w.Has(RuleCategories) && strings.Contains(e.Type, "categories") {
		weight = Boost
	}
	return weight
}
