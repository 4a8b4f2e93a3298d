package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/graph/identity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrNilGraph is returned when Merge is called without a canonical or an
// incoming graph.
var ErrNilGraph = errors.New("merge: nil graph")

// Engine folds incoming subgraphs into canonical graphs.
// An Engine is stateless between merges and safe for concurrent use on
// different canonical graphs.
type Engine struct {
	logger  *slog.Logger
	meter   metric.Meter
	metrics *mergeMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for skipped elements and merge summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMeter sets the meter the merge counters are created on.
// Without it the counters are no-ops.
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) {
		e.meter = meter
	}
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.meter == nil {
		e.meter = noop.NewMeterProvider().Meter("xplor/merge")
	}

	m, err := newMergeMetrics(e.meter)
	if err != nil {
		return nil, err
	}
	e.metrics = m
	return e, nil
}

// Merge folds incoming into canonical, in place, and returns canonical.
//
// Types new by name are registered first. Incoming nodes are matched on
// their identity key: unseen nodes are inserted with the next sequential UUID
// and the defaults of their type schema, matched nodes are discarded without
// touching the canonical properties. An edge is inserted only when no edge
// exists yet between its resolved ordered pair of endpoints. The query that
// produced incoming is appended to the provenance log and statistics are
// recomputed.
//
// Elements that cannot be merged are skipped and listed in the report; they
// never fail the merge. The canonical graph is not rolled back if the caller
// abandons it halfway.
func (e *Engine) Merge(ctx context.Context, collection string, canonical, incoming *graph.Graph) (*graph.Graph, Report, error) {
	var r Report
	if canonical == nil || incoming == nil {
		return canonical, r, ErrNilGraph
	}

	ix := identity.Build(collection, canonical)
	if n := ix.Ambiguous(); n > 0 {
		e.logger.Warn("canonical graph has ambiguous identity keys",
			"collection", collection,
			"keys", n,
		)
	}

	r.NodeTypesAdded = e.registerTypes(collection, canonical.NodeTypes, incoming.NodeTypes, ElementNodeType, &r)
	r.EdgeTypesAdded = e.registerTypes(collection, canonical.EdgeTypes, incoming.EdgeTypes, ElementEdgeType, &r)

	resolved := e.mergeNodes(collection, canonical, incoming, ix, &r)
	e.mergeEdges(collection, canonical, incoming, resolved, &r)

	if incoming.Query != nil {
		q := *incoming.Query
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Date.IsZero() {
			q.Date = time.Now().UTC()
		}
		canonical.Queries = append(canonical.Queries, q)
	}
	canonical.RecomputeStats()

	e.metrics.record(ctx, collection, r)
	e.logger.Debug("merged subgraph",
		"collection", collection,
		"report", r.String(),
		"nodes", canonical.NodeCount(),
		"edges", canonical.EdgeCount(),
	)
	return canonical, r, nil
}

func (e *Engine) registerTypes(collection string, dst, src *graph.Registry, kind string, r *Report) int {
	if src == nil {
		return 0
	}
	added := 0
	for _, t := range src.All() {
		t.Count = 0
		ok, err := dst.Register(t)
		if err != nil {
			e.skip(collection, r, Skip{Element: kind, UUID: t.UUID, Reason: ReasonTypeConflict, Err: err})
			continue
		}
		if ok {
			added++
		}
	}
	return added
}

// mergeNodes inserts the unseen incoming nodes and returns, for every
// incoming node index, the canonical index it resolved to or -1.
func (e *Engine) mergeNodes(collection string, canonical, incoming *graph.Graph, ix *identity.Index, r *Report) []int {
	resolved := make([]int, incoming.NodeCount())
	for _, n := range incoming.Nodes() {
		resolved[n.Index] = -1

		def, err := canonical.NodeTypes.Resolve(n.Type)
		if err != nil {
			e.skip(collection, r, Skip{Element: ElementNode, UUID: n.UUID, Reason: ReasonUnknownType, Err: err})
			continue
		}

		key, err := ix.Key(n)
		if err != nil {
			e.skip(collection, r, Skip{Element: ElementNode, UUID: n.UUID, Reason: keyReason(err), Err: err})
			continue
		}

		i, found, err := ix.Lookup(key)
		if err != nil {
			e.skip(collection, r, Skip{Element: ElementNode, UUID: n.UUID, Reason: ReasonAmbiguousIdentity, Err: err})
			continue
		}
		if found {
			resolved[n.Index] = i
			r.NodesMatched++
			continue
		}

		added, err := canonical.AddNode(graph.Node{
			Type:       n.Type,
			Properties: withDefaults(n.Properties, def.Properties),
		})
		if err != nil {
			e.logger.Error("insert node", "collection", collection, "uuid", n.UUID, "error", err)
			continue
		}
		ix.Add(key, added.Index)
		resolved[n.Index] = added.Index
		r.NodesAdded++
	}
	return resolved
}

func (e *Engine) mergeEdges(collection string, canonical, incoming *graph.Graph, resolved []int, r *Report) {
	for _, edge := range incoming.Edges() {
		src, dst := resolved[edge.Source], resolved[edge.Target]
		if src < 0 || dst < 0 {
			err := fmt.Errorf("endpoints %s -> %s not merged",
				incoming.Node(edge.Source).UUID, incoming.Node(edge.Target).UUID)
			e.skip(collection, r, Skip{Element: ElementEdge, UUID: edge.UUID, Reason: ReasonUnresolvedEndpoint, Err: err})
			continue
		}

		if _, exists := canonical.EdgeBetween(src, dst); exists {
			r.EdgesMatched++
			continue
		}

		def, err := canonical.EdgeTypes.Resolve(edge.Type)
		if err != nil {
			e.skip(collection, r, Skip{Element: ElementEdge, UUID: edge.UUID, Reason: ReasonUnknownType, Err: err})
			continue
		}

		if _, err := canonical.AddEdge(graph.Edge{
			Source:     src,
			Target:     dst,
			Type:       edge.Type,
			Properties: withDefaults(edge.Properties, def.Properties),
		}); err != nil {
			e.logger.Error("insert edge", "collection", collection, "uuid", edge.UUID, "error", err)
			continue
		}
		r.EdgesAdded++
	}
}

func (e *Engine) skip(collection string, r *Report, s Skip) {
	r.Skipped = append(r.Skipped, s)
	e.logger.Warn("skipping incoming element",
		"collection", collection,
		"element", s.Element,
		"uuid", s.UUID,
		"reason", string(s.Reason),
		"error", s.Err,
	)
}

func keyReason(err error) SkipReason {
	if errors.Is(err, graph.ErrUnknownType) {
		return ReasonUnknownType
	}
	return ReasonMissingDiscriminant
}

// withDefaults copies props and fills every property declared in schema that
// is absent.
func withDefaults(props map[string]any, schema graph.PropertySchema) map[string]any {
	out := make(map[string]any, len(props)+len(schema))
	maps.Copy(out, props)
	for name, def := range schema {
		if _, ok := out[name]; !ok {
			out[name] = def
		}
	}
	return out
}
