package graph

import "time"

// Meta holds the aggregate statistics of a graph.
type Meta struct {
	Owner     string  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Date      string  `json:"date,omitempty" yaml:"date,omitempty"`
	NodeCount int     `json:"node_count" yaml:"node_count"`
	EdgeCount int     `json:"edge_count" yaml:"edge_count"`
	StarCount int     `json:"star_count" yaml:"star_count"`
	Stats     Stats   `json:"stats" yaml:"stats"`
	Lineage   Lineage `json:"pedigree" yaml:"pedigree"`
}

// Stats holds per-type instance counts keyed by type UUID.
type Stats struct {
	NodeTypes map[string]int `json:"nodetypes" yaml:"nodetypes"`
	EdgeTypes map[string]int `json:"edgetypes" yaml:"edgetypes"`
}

// Lineage summarises the provenance log.
type Lineage struct {
	// Queries is the length of the provenance log.
	Queries int `json:"queries" yaml:"queries"`

	// Distinct is the number of distinct query texts.
	Distinct int `json:"distinct" yaml:"distinct"`

	// Sources counts queries per source ("rdf", "istex", ...). Queries
	// without a source are counted under "unknown".
	Sources map[string]int `json:"sources,omitempty" yaml:"sources,omitempty"`

	First   string    `json:"first,omitempty" yaml:"first,omitempty"`
	Last    string    `json:"last,omitempty" yaml:"last,omitempty"`
	FirstAt time.Time `json:"first_at,omitempty" yaml:"first_at,omitempty"`
	LastAt  time.Time `json:"last_at,omitempty" yaml:"last_at,omitempty"`
}

// ComputeLineage derives the lineage summary of a provenance log.
func ComputeLineage(queries []Query) Lineage {
	l := Lineage{Queries: len(queries)}
	if len(queries) == 0 {
		return l
	}

	distinct := make(map[string]struct{}, len(queries))
	l.Sources = make(map[string]int)
	for _, q := range queries {
		distinct[q.Q] = struct{}{}
		src := q.Source
		if src == "" {
			src = "unknown"
		}
		l.Sources[src]++
	}
	l.Distinct = len(distinct)

	first, last := queries[0], queries[len(queries)-1]
	l.First, l.FirstAt = first.Q, first.Date
	l.Last, l.LastAt = last.Q, last.Date
	return l
}

// RecomputeStats refreshes Meta and the Count of every registered type from
// the current node, edge, starred and provenance sets. Owner and Date are
// left untouched.
func (g *Graph) RecomputeStats() {
	nodeStats := make(map[string]int)
	for _, n := range g.nodes {
		nodeStats[n.Type]++
	}
	edgeStats := make(map[string]int)
	for _, e := range g.edges {
		edgeStats[e.Type]++
	}

	for _, t := range g.NodeTypes.types {
		t.Count = nodeStats[t.UUID]
	}
	for _, t := range g.EdgeTypes.types {
		t.Count = edgeStats[t.UUID]
	}

	g.Meta.NodeCount = len(g.nodes)
	g.Meta.EdgeCount = len(g.edges)
	g.Meta.StarCount = len(g.Starred)
	g.Meta.Stats = Stats{NodeTypes: nodeStats, EdgeTypes: edgeStats}
	g.Meta.Lineage = ComputeLineage(g.Queries)
}
