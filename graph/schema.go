package graph

import "fmt"

// Names of the types in the default import schema.
const (
	// PrimaryName is the name of the primary content type. Nodes of this type
	// are identified by their "id" property.
	PrimaryName = "article"

	TypeAuthors       = "auteurs"
	TypeRefBibAuthors = "refBibAuteurs"
	TypeKeywords      = "keywords"
	TypeCategories    = "categories"
	TypeEntity        = "Entity"
	TypeLiteral       = "Literal"
	TypePredicate     = "predicate"
)

// Well-known property names.
const (
	PropID     = "id"
	PropLabel  = "label"
	PropURI    = "URI"
	PropWeight = "weight"
)

// Schema is a set of node and edge types used to seed a new collection.
type Schema struct {
	NodeTypes []TypeDef `json:"node_types" yaml:"node_types"`
	EdgeTypes []TypeDef `json:"edge_types" yaml:"edge_types"`
}

// TypeUUID returns the UUID of the type called name in collection.
func TypeUUID(collection, name string) string {
	return fmt.Sprintf("_%s_%s", collection, name)
}

// PrimaryType returns the UUID of the primary content type of collection.
func PrimaryType(collection string) string {
	return TypeUUID(collection, PrimaryName)
}

// DefaultSchema returns the default import schema of collection: articles
// with their authors, bibliographic authors, keywords and categories, plus
// the entity/literal/predicate types produced by RDF lookups.
func DefaultSchema(collection string) Schema {
	text := func(names ...string) PropertySchema {
		s := make(PropertySchema, len(names))
		for _, n := range names {
			s[n] = ""
		}
		return s
	}
	weighted := func(extra ...string) PropertySchema {
		s := text(extra...)
		s[PropWeight] = 1.0
		return s
	}
	def := func(name string, props PropertySchema) TypeDef {
		return TypeDef{UUID: TypeUUID(collection, name), Name: name, Properties: props}
	}

	return Schema{
		NodeTypes: []TypeDef{
			def(PrimaryName, text(PropID, PropLabel, "title", "date", "url", "abstract")),
			def(TypeAuthors, text(PropLabel)),
			def(TypeRefBibAuthors, text(PropLabel)),
			def(TypeKeywords, text(PropLabel)),
			def(TypeCategories, text(PropLabel)),
			def(TypeEntity, text(PropURI, PropLabel)),
			def(TypeLiteral, text(PropID, PropLabel)),
		},
		EdgeTypes: []TypeDef{
			def(TypeAuthors, weighted()),
			def(TypeRefBibAuthors, weighted()),
			def(TypeKeywords, weighted()),
			def(TypeCategories, weighted()),
			def(TypePredicate, weighted(PropLabel)),
		},
	}
}

// Empty creates the empty graph of a collection seeded with schema, or with
// DefaultSchema when schema is nil.
func Empty(collection string, schema *Schema) *Graph {
	if schema == nil {
		s := DefaultSchema(collection)
		schema = &s
	}

	g := New(collection)
	for _, t := range schema.NodeTypes {
		_, _ = g.NodeTypes.Register(t)
	}
	for _, t := range schema.EdgeTypes {
		_, _ = g.EdgeTypes.Register(t)
	}
	g.RecomputeStats()
	return g
}
