package store

import (
	"context"
	"sort"
	"sync"

	"github.com/zero-day-ai/xplor/graph"
)

// Memory keeps graphs in process memory.
//
// Get returns the stored instance itself, so a caller mutating it mutates
// the stored graph.
type Memory struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{graphs: make(map[string]*graph.Graph)}
}

func (m *Memory) Get(ctx context.Context, collection string) (*graph.Graph, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	g, ok := m.graphs[collection]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

func (m *Memory) Put(ctx context.Context, collection string, g *graph.Graph) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.graphs[collection] = g
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.graphs, collection)
	return nil
}

func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]string, 0, len(m.graphs))
	for c := range m.graphs {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Ping fails only once the store is closed.
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.graphs = nil
	return nil
}
