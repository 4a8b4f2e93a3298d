package resolver

import (
	"context"
	"fmt"
	"sync"

	"github.com/zero-day-ai/xplor/graph"
)

// Static resolves queries against fixtures registered in memory.
// Every call returns a fresh copy of the fixture.
type Static struct {
	mu       sync.RWMutex
	source   string
	fixtures map[string]graph.Document
}

// NewStatic creates an empty Static resolver. Source is recorded on the
// query descriptors it produces; it defaults to "static".
func NewStatic(source string) *Static {
	if source == "" {
		source = "static"
	}
	return &Static{source: source, fixtures: make(map[string]graph.Document)}
}

// Add registers g as the result of query, replacing any previous fixture.
func (s *Static) Add(query string, g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[query] = g.Document()
}

func (s *Static) Resolve(ctx context.Context, collection, query string) (*graph.Graph, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	doc, ok := s.fixtures[query]
	s.mu.RUnlock()
	if !ok {
		return empty(collection, query, s.source), nil
	}

	g, err := graph.FromDocument(Rebind(doc, collection))
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", query, err)
	}
	if g.Query == nil {
		g.Query = describe(query, s.source)
	}
	return g, nil
}
