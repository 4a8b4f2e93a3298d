package identity

import (
	"errors"
	"fmt"

	"github.com/zero-day-ai/xplor/graph"
)

var (
	// ErrMissingDiscriminant is returned when a node lacks the property its
	// key is derived from.
	ErrMissingDiscriminant = errors.New("identity: missing discriminant")

	// ErrAmbiguousIdentity is returned when a key maps to more than one
	// canonical node.
	ErrAmbiguousIdentity = errors.New("identity: ambiguous identity")
)

// Key is the identity of a node within a collection.
type Key struct {
	// Primary is set for primary content nodes, keyed on their identifier.
	Primary bool

	// Type is the type name of a non-primary node.
	Type string

	// Value is the identifier of a primary node, or the label otherwise.
	Value string
}

// String renders the key: the identifier of a primary node, type name and
// label concatenated otherwise.
func (k Key) String() string {
	if k.Primary {
		return k.Value
	}
	return k.Type + k.Value
}

// KeyOf computes the identity key of n. The node type is resolved through
// types.
func KeyOf(collection string, types *graph.Registry, n *graph.Node) (Key, error) {
	if n.Type == graph.PrimaryType(collection) {
		id, ok := n.Text(graph.PropID)
		if !ok || id == "" {
			return Key{}, fmt.Errorf("%w: node %s has no %q", ErrMissingDiscriminant, n.UUID, graph.PropID)
		}
		return Key{Primary: true, Value: id}, nil
	}

	def, err := types.Resolve(n.Type)
	if err != nil {
		return Key{}, err
	}
	label, ok := n.Text(graph.PropLabel)
	if !ok {
		return Key{}, fmt.Errorf("%w: node %s has no %q", ErrMissingDiscriminant, n.UUID, graph.PropLabel)
	}
	return Key{Type: def.Name, Value: label}, nil
}

// Index maps identity keys to node indices of one graph.
type Index struct {
	collection string
	types      *graph.Registry
	keys       map[Key]int
	ambiguous  map[Key]struct{}
	unkeyed    int
}

// Build indexes every node of g. Nodes whose key cannot be computed are not
// indexed; Unkeyed reports how many there were.
func Build(collection string, g *graph.Graph) *Index {
	ix := &Index{
		collection: collection,
		types:      g.NodeTypes,
		keys:       make(map[Key]int, g.NodeCount()),
		ambiguous:  make(map[Key]struct{}),
	}
	for _, n := range g.Nodes() {
		k, err := ix.Key(n)
		if err != nil {
			ix.unkeyed++
			continue
		}
		ix.Add(k, n.Index)
	}
	return ix
}

// Key computes the key of n against the registry of the indexed graph.
func (ix *Index) Key(n *graph.Node) (Key, error) {
	return KeyOf(ix.collection, ix.types, n)
}

// Lookup returns the index of the node carrying k.
func (ix *Index) Lookup(k Key) (int, bool, error) {
	if _, bad := ix.ambiguous[k]; bad {
		return 0, false, fmt.Errorf("%w: %s", ErrAmbiguousIdentity, k)
	}
	i, ok := ix.keys[k]
	return i, ok, nil
}

// Add records that node i carries k. Recording a second node for the same
// key marks the key ambiguous.
func (ix *Index) Add(k Key, i int) {
	if prev, ok := ix.keys[k]; ok && prev != i {
		ix.ambiguous[k] = struct{}{}
		return
	}
	ix.keys[k] = i
}

// Len returns the number of indexed keys.
func (ix *Index) Len() int { return len(ix.keys) }

// Ambiguous returns the number of keys shared by several nodes.
func (ix *Index) Ambiguous() int { return len(ix.ambiguous) }

// Unkeyed returns the number of nodes Build could not key.
func (ix *Index) Unkeyed() int { return ix.unkeyed }
