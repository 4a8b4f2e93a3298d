package graph

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// PropertySchema maps a property name to its default value.
type PropertySchema map[string]any

// TypeDef describes a node type or an edge type.
type TypeDef struct {
	// UUID identifies the type inside its collection. Nodes and edges
	// reference their type by UUID.
	UUID string `json:"uuid" yaml:"uuid"`

	// Name is the human readable type name. Names are unique per registry.
	Name string `json:"name" yaml:"name"`

	// Properties is the property schema: every declared property is present
	// on instances after a merge, filled with its default when absent.
	Properties PropertySchema `json:"properties" yaml:"properties"`

	// Count is the number of instances of this type, refreshed by
	// RecomputeStats.
	Count int `json:"count" yaml:"count,omitempty"`
}

// Registry is an append-only catalog of types.
//
// Registration is keyed by name and the first registration wins: a later
// type with the same name never alters the established schema. Lookups by
// UUID go through Resolve.
type Registry struct {
	types  []*TypeDef
	byName map[string]int
	byUUID map[string]int
}

// NewRegistry creates a registry holding the given types, in order.
// Types that fail to register are ignored.
func NewRegistry(types ...TypeDef) *Registry {
	r := &Registry{
		types:  make([]*TypeDef, 0, len(types)),
		byName: make(map[string]int),
		byUUID: make(map[string]int),
	}
	for _, t := range types {
		_, _ = r.Register(t)
	}
	return r
}

// Register appends t if no type with the same name exists. It reports
// whether the type was added.
//
// A type without a UUID receives a random one. A new name that reuses the
// UUID of a registered type is rejected with ErrTypeConflict.
func (r *Registry) Register(t TypeDef) (bool, error) {
	if t.Name == "" {
		return false, fmt.Errorf("type name is required")
	}
	if _, exists := r.byName[t.Name]; exists {
		return false, nil
	}
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	if i, taken := r.byUUID[t.UUID]; taken {
		return false, fmt.Errorf("%w: %s is %q, not %q", ErrTypeConflict, t.UUID, r.types[i].Name, t.Name)
	}

	def := t
	def.Properties = maps.Clone(t.Properties)
	if def.Properties == nil {
		def.Properties = make(PropertySchema)
	}

	r.types = append(r.types, &def)
	r.byName[def.Name] = len(r.types) - 1
	r.byUUID[def.UUID] = len(r.types) - 1
	return true, nil
}

// Resolve returns the type registered under typeUUID.
// Returns ErrUnknownType when no such type exists.
func (r *Registry) Resolve(typeUUID string) (*TypeDef, error) {
	i, ok := r.byUUID[typeUUID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeUUID)
	}
	return r.types[i], nil
}

// ByName returns the type registered under name, or nil.
func (r *Registry) ByName(name string) *TypeDef {
	i, ok := r.byName[name]
	if !ok {
		return nil
	}
	return r.types[i]
}

// Has reports whether a type with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// All returns copies of the registered types in registration order.
func (r *Registry) All() []TypeDef {
	out := make([]TypeDef, len(r.types))
	for i, t := range r.types {
		out[i] = *t
		out[i].Properties = maps.Clone(t.Properties)
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	return NewRegistry(r.All()...)
}
