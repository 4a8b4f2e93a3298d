package merge

import (
	"fmt"
	"strings"
)

// SkipReason classifies an incoming element the engine did not merge.
type SkipReason string

const (
	// ReasonUnknownType marks an element whose type UUID is not registered
	// in the canonical graph.
	ReasonUnknownType SkipReason = "unknown_type"

	// ReasonTypeConflict marks an incoming type whose UUID is already used
	// by a different type name.
	ReasonTypeConflict SkipReason = "type_conflict"

	// ReasonMissingDiscriminant marks a node without the property its
	// identity key is derived from.
	ReasonMissingDiscriminant SkipReason = "missing_discriminant"

	// ReasonAmbiguousIdentity marks a node whose key matches several
	// canonical nodes.
	ReasonAmbiguousIdentity SkipReason = "ambiguous_identity"

	// ReasonUnresolvedEndpoint marks an edge with an endpoint that was not
	// merged.
	ReasonUnresolvedEndpoint SkipReason = "unresolved_endpoint"
)

// Element kinds reported in Skip.
const (
	ElementNode     = "node"
	ElementEdge     = "edge"
	ElementNodeType = "node_type"
	ElementEdgeType = "edge_type"
)

// Skip describes one element left out of a merge.
type Skip struct {
	Element string
	UUID    string
	Reason  SkipReason
	Err     error
}

func (s Skip) String() string {
	return fmt.Sprintf("%s %s: %s: %v", s.Element, s.UUID, s.Reason, s.Err)
}

// Report summarises a merge.
type Report struct {
	NodeTypesAdded int
	EdgeTypesAdded int

	// NodesAdded counts inserted nodes, NodesMatched incoming nodes that
	// already existed and were discarded.
	NodesAdded   int
	NodesMatched int

	EdgesAdded   int
	EdgesMatched int

	Skipped []Skip
}

// Changed reports whether the merge inserted anything.
func (r Report) Changed() bool {
	return r.NodesAdded+r.EdgesAdded+r.NodeTypesAdded+r.EdgeTypesAdded > 0
}

// SkipCount returns the number of skips with the given reason.
func (r Report) SkipCount(reason SkipReason) int {
	n := 0
	for _, s := range r.Skipped {
		if s.Reason == reason {
			n++
		}
	}
	return n
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nodes +%d (=%d) edges +%d (=%d) types +%d/+%d",
		r.NodesAdded, r.NodesMatched, r.EdgesAdded, r.EdgesMatched, r.NodeTypesAdded, r.EdgeTypesAdded)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, " skipped %d", len(r.Skipped))
	}
	return b.String()
}
