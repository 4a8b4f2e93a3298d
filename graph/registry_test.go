package graph_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/xplor/graph"
)

func TestRegistry_Register(t *testing.T) {
	r := graph.NewRegistry()

	added, err := r.Register(graph.TypeDef{UUID: "t1", Name: "keywords", Properties: graph.PropertySchema{"label": ""}})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, r.Len())

	t.Run("duplicate name is a silent no-op", func(t *testing.T) {
		added, err := r.Register(graph.TypeDef{UUID: "t2", Name: "keywords", Properties: graph.PropertySchema{"other": 1}})
		require.NoError(t, err)
		assert.False(t, added)

		def := r.ByName("keywords")
		require.NotNil(t, def)
		assert.Equal(t, "t1", def.UUID, "first registration wins")
		assert.NotContains(t, def.Properties, "other")

		_, err = r.Resolve("t2")
		assert.ErrorIs(t, err, graph.ErrUnknownType)
	})

	t.Run("uuid reuse under a new name is rejected", func(t *testing.T) {
		added, err := r.Register(graph.TypeDef{UUID: "t1", Name: "categories"})
		assert.False(t, added)
		assert.True(t, errors.Is(err, graph.ErrTypeConflict))
		assert.False(t, r.Has("categories"))
	})

	t.Run("missing uuid is generated", func(t *testing.T) {
		added, err := r.Register(graph.TypeDef{Name: "authors"})
		require.NoError(t, err)
		require.True(t, added)

		def := r.ByName("authors")
		require.NotNil(t, def)
		_, err = uuid.Parse(def.UUID)
		assert.NoError(t, err, "generated type uuid should be a valid UUID")
		assert.NotNil(t, def.Properties)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := r.Register(graph.TypeDef{UUID: "x"})
		assert.Error(t, err)
	})
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := graph.NewRegistry(graph.TypeDef{UUID: "a", Name: "A"})

	def, err := r.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, "A", def.Name)

	_, err = r.Resolve("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrUnknownType)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_SchemaIsCopied(t *testing.T) {
	schema := graph.PropertySchema{"label": "none"}
	r := graph.NewRegistry(graph.TypeDef{UUID: "a", Name: "A", Properties: schema})

	schema["label"] = "mutated"
	schema["extra"] = true

	def := r.ByName("A")
	assert.Equal(t, "none", def.Properties["label"])
	assert.NotContains(t, def.Properties, "extra")

	all := r.All()
	all[0].Properties["label"] = "changed through All"
	assert.Equal(t, "none", r.ByName("A").Properties["label"])
}

func TestRegistry_Clone(t *testing.T) {
	r := graph.NewRegistry(
		graph.TypeDef{UUID: "a", Name: "A"},
		graph.TypeDef{UUID: "b", Name: "B"},
	)
	c := r.Clone()
	_, err := c.Register(graph.TypeDef{UUID: "c", Name: "C"})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"A", "B", "C"}, names(c.All()))
}

func names(types []graph.TypeDef) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name
	}
	return out
}
