// Package xplor maintains per-collection knowledge graphs built from search
// results and answers proximity queries over them.
//
// Each collection owns one canonical typed graph. Query results arrive as
// subgraphs which are merged into the canonical graph without duplicating
// nodes or edges. Nodes are then ranked by proximity to a seed set through
// a bounded random-walk-like propagation, and the best ranked nodes are
// returned as a presentation subgraph.
//
// # Packages
//
//   - graph: typed graph, type registries, persisted document layout
//   - graph/identity: identity keys used to deduplicate nodes
//   - merge: the merge engine
//   - prox: proximity propagation, weighting rules and top-k selection
//   - extract: subgraph selection, extraction and cluster labels
//   - store: collection stores (memory, Badger, Redis, etcd)
//   - resolver: query resolvers producing incoming subgraphs
//   - config: xplor.yaml loading
//   - health: dependency checks
//
// # Getting Started
//
// An Explorer ties a store and a resolver together:
//
//	s, err := store.OpenBadger(store.BadgerConfig{Path: "/var/lib/xplor"}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	r, err := resolver.NewFiles("/var/lib/xplor/subgraphs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	x, err := xplor.New(s, xplor.WithResolver(r), xplor.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer xplor.CloseWithLog(x, logger, "explorer")
//
//	g, report, err := x.Search(ctx, "demo", "graph theory")
//	view, err := x.Graph(ctx, "demo", xplor.GraphRequest{AllPrimary: true})
//
// # Observability
//
// Every Explorer operation opens an OpenTelemetry span named after the
// operation ("Explorer.Search", ...) and counts itself on the
// "xplor.operations" counter. The merge engine adds the
// "xplor.merge.nodes_added", "xplor.merge.edges_added" and
// "xplor.merge.skipped" counters. Tracer and meter default to no-ops.
//
// # Errors
//
// Operations return *Error values carrying the operation name and a kind
// (KindNotFound, KindValidation, KindStorage, KindResolver, KindInternal).
// The underlying sentinel errors stay reachable through errors.Is.
package xplor
