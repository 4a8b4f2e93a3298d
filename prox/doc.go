// Package prox ranks the nodes of a graph by proximity to a set of seeds.
//
// Propagate performs a bounded weighted diffusion: a fixed number of rounds
// in which every node spreads the weight it received to its neighbours,
// itself included. Edges are followed in both directions. How much an edge
// carries is decided by a Weighting:
//
//	scores, err := prox.Propagate(g, map[int]float64{0: 1}, 3, prox.Weighting{prox.RuleWeight, prox.RuleKeywords}.Neighbours())
//	top, err := prox.Sortcut(scores, 50)
//
// Sortcut is deterministic: equal scores are ordered by ascending node index.
//
// Both functions only read the graph.
package prox
