package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/xplor/extract"
	"github.com/zero-day-ai/xplor/prox"
)

func TestLabels(t *testing.T) {
	g := corpus(t)

	clusters := [][]string{
		{"0", "3"},  // A1 and tree
		{"1"},       // A2
		{"2", "5"},  // no article
		{"0", "1"},  // both articles
		{"missing"}, // unknown uuid
	}
	opts := extract.DefaultLabelOptions()

	labels, err := extract.Labels(g, gid, clusters, opts)
	require.NoError(t, err)
	require.Len(t, labels, len(clusters))

	// From A1 graph and tree tie at 9, ahead of leaf.
	require.Len(t, labels[0], 2)
	assert.Equal(t, extract.Label{UUID: "2", Label: "graph", Score: 9}, labels[0][0])
	assert.Equal(t, extract.Label{UUID: "3", Label: "tree", Score: 9}, labels[0][1])

	require.Len(t, labels[1], 2)
	assert.Empty(t, labels[2])
	assert.NotNil(t, labels[2], "clusters without articles get an empty list")
	assert.Len(t, labels[3], 2)
	assert.Empty(t, labels[4])

	for _, cluster := range labels {
		for _, l := range cluster {
			assert.NotEqual(t, "A1", l.Label)
			assert.NotEqual(t, "A2", l.Label)
		}
	}
}

func TestLabels_CountAndWeighting(t *testing.T) {
	g := corpus(t)

	opts := extract.DefaultLabelOptions()
	opts.Count = 1
	opts.Length = 1
	opts.Weighting = prox.Weighting{prox.RuleAuthors}

	labels, err := extract.Labels(g, gid, [][]string{{"1"}}, opts)
	require.NoError(t, err)

	require.Len(t, labels[0], 1)
	assert.Equal(t, extract.Label{UUID: "4", Label: "ada", Score: prox.Boost}, labels[0][0])
}

func TestLabels_Filter(t *testing.T) {
	g := corpus(t)

	f, err := extract.NewFilter(`label.startsWith("t")`)
	require.NoError(t, err)
	opts := extract.DefaultLabelOptions()
	opts.Filter = f

	labels, err := extract.Labels(g, gid, [][]string{{"0"}}, opts)
	require.NoError(t, err)

	require.Len(t, labels[0], 1)
	assert.Equal(t, "tree", labels[0][0].Label)
}
