// Package resolver produces the incoming subgraphs merged into collections.
//
// A Resolver answers a query with a subgraph in the persisted layout of
// graph.Document. Static serves fixtures registered in memory and Files
// reads YAML or JSON documents from a directory, one file per query.
package resolver
