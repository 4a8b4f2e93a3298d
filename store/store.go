package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zero-day-ai/xplor/graph"
)

// Common errors returned by store operations.
var (
	// ErrNotFound is returned when no graph is stored under a collection.
	ErrNotFound = errors.New("store: collection not found")

	// ErrInvalidCollection is returned for an empty or malformed collection
	// identifier.
	ErrInvalidCollection = errors.New("store: invalid collection")

	// ErrCorrupt is returned when a stored graph cannot be decoded.
	ErrCorrupt = errors.New("store: corrupt graph")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store: closed")
)

// Store maps collection identifiers to canonical graphs.
//
// Store does not serialise writers: callers that read, modify and put back a
// graph hold the collection lock of a Locker for the whole sequence.
type Store interface {
	// Get returns the graph of collection, or ErrNotFound.
	Get(ctx context.Context, collection string) (*graph.Graph, error)

	// Put stores g under collection, replacing any previous graph.
	Put(ctx context.Context, collection string, g *graph.Graph) error

	// Delete removes the graph of collection. Deleting a missing collection
	// is not an error.
	Delete(ctx context.Context, collection string) error

	// List returns the stored collection identifiers in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend.
	Close() error
}

// Pinger is implemented by stores that can check the liveness of their
// backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ValidateCollection checks a collection identifier. Identifiers are
// non-empty and contain neither slashes nor whitespace, so they can be used
// verbatim in backend keys.
func ValidateCollection(collection string) error {
	if collection == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCollection)
	}
	if strings.ContainsAny(collection, "/ \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	return nil
}

// encode serialises g in its persisted layout.
func encode(g *graph.Graph) ([]byte, error) {
	data, err := json.Marshal(g.Document())
	if err != nil {
		return nil, fmt.Errorf("encode graph %s: %w", g.Collection, err)
	}
	return data, nil
}

// decode is the inverse of encode.
func decode(collection string, data []byte) (*graph.Graph, error) {
	var doc graph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, collection, err)
	}
	g, err := graph.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, collection, err)
	}
	return g, nil
}
