// Package extract builds presentation views on top of proximity rankings.
//
// Extract ranks nodes around a set of seeds. Select turns a ranking into an
// induced subgraph that always keeps the pinned nodes: the ranking is cut at
// Cut plus the number of pinned nodes, pinned nodes are removed from it, the
// rest is truncated to Cut and the pinned nodes are added back. Labels names
// clusters after the nodes closest to their primary nodes.
//
// Candidates can be narrowed with a CEL expression compiled by NewFilter.
package extract
