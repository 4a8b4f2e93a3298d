// Package graph provides the canonical, typed, directed knowledge graph that
// xplor grows one query result at a time.
//
// A collection owns exactly one Graph. The graph carries:
//
//   - two type registries (node types and edge types), each entry holding a
//     property schema that maps property names to default values
//   - the node and edge sets, addressed either by position (Index) or by a
//     stable, collection-unique UUID
//   - the provenance log: every query whose result was merged into the graph
//   - the starred (pinned) node set
//   - aggregate statistics recomputed after each merge
//
// # Creating Graphs
//
// An empty collection starts from the default import schema:
//
//	g := graph.Empty("cillex", nil)
//	article := g.NodeTypes.ByName(graph.PrimaryName)
//
// Incoming subgraphs are built with the same type. Endpoints of edges are node
// indices:
//
//	sub := graph.Empty("cillex", nil)
//	a, _ := sub.AddNode(graph.Node{Type: graph.PrimaryType("cillex"), Properties: map[string]any{"id": "A1"}})
//	k, _ := sub.AddNode(graph.Node{Type: graph.TypeUUID("cillex", "keywords"), Properties: map[string]any{"label": "go"}})
//	_, _ = sub.AddEdge(graph.Edge{Source: a.Index, Target: k.Index, Type: graph.TypeUUID("cillex", "keywords")})
//
// # Persisted Layout
//
// Graph implements json.Marshaler through Document, the logical persisted
// layout shared by every store backend:
//
//	{collection, node_types, edge_types, nodes, edges, pinned_nodes, provenance_log, stats}
//
// # Thread Safety
//
// A Graph is not safe for concurrent mutation. Callers serialise writers per
// collection (see store.Locker); readers must not run alongside a writer.
package graph
