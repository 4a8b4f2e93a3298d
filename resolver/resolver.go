package resolver

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/zero-day-ai/xplor/graph"
)

// ErrEmptyQuery is returned when Resolve is called without query text.
var ErrEmptyQuery = errors.New("resolver: empty query")

// Resolver turns a query into an incoming subgraph ready to be merged into
// a collection.
//
// The returned graph carries the query descriptor in its Query field. A
// query without results yields an empty subgraph, not an error.
type Resolver interface {
	Resolve(ctx context.Context, collection, query string) (*graph.Graph, error)
}

// Func adapts a function to the Resolver interface.
type Func func(ctx context.Context, collection, query string) (*graph.Graph, error)

func (f Func) Resolve(ctx context.Context, collection, query string) (*graph.Graph, error) {
	return f(ctx, collection, query)
}

// Slug maps query text to a file-system and key friendly name: lower case
// letters and digits, other runs collapsed to a single dash.
func Slug(query string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(query)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// empty returns the result of a query without matches.
func empty(collection, query, source string) *graph.Graph {
	g := graph.New(collection)
	g.Query = describe(query, source)
	return g
}

func describe(query, source string) *graph.Query {
	q := graph.NewQuery(query)
	q.Source = source
	return q
}

// Rebind moves the types declared by doc into collection: every declared
// type takes the UUID graph.TypeUUID gives its name there, and the nodes and
// edges referencing it follow. References to undeclared types are kept.
func Rebind(doc graph.Document, collection string) graph.Document {
	doc.Collection = collection

	nodeTypes := make(map[string]string, len(doc.NodeTypes))
	out := make([]graph.TypeDef, len(doc.NodeTypes))
	for i, t := range doc.NodeTypes {
		id := graph.TypeUUID(collection, t.Name)
		nodeTypes[t.UUID] = id
		t.UUID = id
		out[i] = t
	}
	doc.NodeTypes = out

	edgeTypes := make(map[string]string, len(doc.EdgeTypes))
	out = make([]graph.TypeDef, len(doc.EdgeTypes))
	for i, t := range doc.EdgeTypes {
		id := graph.TypeUUID(collection, t.Name)
		edgeTypes[t.UUID] = id
		t.UUID = id
		out[i] = t
	}
	doc.EdgeTypes = out

	nodes := make([]graph.NodeRecord, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if id, ok := nodeTypes[n.TypeUUID]; ok {
			n.TypeUUID = id
		}
		nodes[i] = n
	}
	doc.Nodes = nodes

	edges := make([]graph.EdgeRecord, len(doc.Edges))
	for i, e := range doc.Edges {
		if id, ok := edgeTypes[e.TypeUUID]; ok {
			e.TypeUUID = id
		}
		edges[i] = e
	}
	doc.Edges = edges
	return doc
}
