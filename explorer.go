package xplor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zero-day-ai/xplor/extract"
	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/health"
	"github.com/zero-day-ai/xplor/merge"
	"github.com/zero-day-ai/xplor/prox"
	"github.com/zero-day-ai/xplor/resolver"
	"github.com/zero-day-ai/xplor/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/zero-day-ai/xplor"

// Explorer serves the operations of the exploration service over a store
// of collections. Every operation on a collection holds that collection's
// lock from the first read to the final write, so concurrent operations on
// one collection are serialised and operations on different collections
// run in parallel.
type Explorer struct {
	store    store.Store
	resolver resolver.Resolver
	merger   *merge.Engine
	locks    *store.Locker
	schema   func(collection string) graph.Schema
	settings Settings

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	ops    metric.Int64Counter
}

// GraphRequest asks for a view of a collection.
type GraphRequest struct {
	// Nodes are the UUIDs of the nodes the view is centred on. They are
	// always part of the view. Unknown UUIDs are ignored.
	Nodes []string

	// Reset ignores Nodes and centres the view on the primary nodes.
	Reset bool

	// AllPrimary adds every primary node to the view and seeds the ranking
	// with them.
	AllPrimary bool

	// Zero Cut, Length and Weighting take the Explorer defaults.
	Cut       int
	Length    int
	Weighting prox.Weighting

	// Filter is an optional CEL expression candidates must satisfy.
	Filter string
}

// ExpandRequest asks to expand a collection around a node.
type ExpandRequest struct {
	// Nodes lists candidate UUIDs; the first one found is expanded.
	Nodes []string

	// Zero Cut, Length and Weighting take the Explorer defaults.
	Cut       int
	Length    int
	Weighting prox.Weighting
}

// LabelsRequest asks for labels of clusters of a collection.
type LabelsRequest struct {
	// Clusters are lists of node UUIDs.
	Clusters [][]string

	// Zero Count and Weighting take the Explorer defaults.
	Count     int
	Weighting prox.Weighting

	// Filter is an optional CEL expression candidate labels must satisfy.
	Filter string
}

// View is a ranked subgraph of a collection.
type View struct {
	Graph *graph.Graph `json:"graph"`

	// Scores maps the UUID of every node of Graph to its score.
	Scores map[string]float64 `json:"scores"`
}

// New creates an Explorer over s.
func New(s store.Store, opts ...Option) (*Explorer, error) {
	if s == nil {
		return nil, &Error{Op: "New", Kind: KindValidation, Err: errors.New("store is required")}
	}

	e := &Explorer{
		store:    s,
		locks:    store.NewLocker(),
		schema:   graph.DefaultSchema,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tracer == nil {
		e.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	if e.meter == nil {
		e.meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}

	ops, err := e.meter.Int64Counter("xplor.operations",
		metric.WithDescription("Explorer operations by name and outcome"))
	if err != nil {
		return nil, &Error{Op: "New", Kind: KindInternal, Err: err}
	}
	e.ops = ops

	if e.merger == nil {
		m, err := merge.New(merge.WithLogger(e.logger), merge.WithMeter(e.meter))
		if err != nil {
			return nil, &Error{Op: "New", Kind: KindInternal, Err: err}
		}
		e.merger = m
	}
	return e, nil
}

// Close closes the store.
func (e *Explorer) Close() error {
	return e.store.Close()
}

// Collections lists the stored collections.
func (e *Explorer) Collections(ctx context.Context) (names []string, err error) {
	const op = "Explorer.Collections"
	ctx, span := e.start(ctx, op, "")
	defer func() { e.end(ctx, span, op, err) }()

	names, err = e.store.List(ctx)
	return names, newError(op, KindStorage, "", err)
}

// Collection returns the canonical graph of collection, creating and
// storing an empty one seeded with the schema when it does not exist yet.
//
// The collection lock is released on return. Stores that hand out the stored
// instance, such as store.Memory, return the live graph, which later
// operations on the same collection mutate: it must not be read while other
// operations run on that collection.
func (e *Explorer) Collection(ctx context.Context, collection string) (g *graph.Graph, err error) {
	const op = "Explorer.Collection"
	ctx, span := e.start(ctx, op, collection)
	defer func() { e.end(ctx, span, op, err) }()

	unlock := e.locks.Lock(collection)
	defer unlock()

	g, err = e.load(ctx, collection)
	if err != nil {
		return nil, newError(op, KindStorage, collection, err)
	}
	span.SetAttributes(attribute.Int("xplor.nodes", g.NodeCount()))
	return g, nil
}

// Search resolves query, merges the result into collection and stores it.
// The returned graph follows the same aliasing rule as Collection.
func (e *Explorer) Search(ctx context.Context, collection, query string) (g *graph.Graph, report merge.Report, err error) {
	const op = "Explorer.Search"
	ctx, span := e.start(ctx, op, collection)
	span.SetAttributes(attribute.String("xplor.query", query))
	defer func() { e.end(ctx, span, op, err) }()

	if e.resolver == nil {
		return nil, report, newError(op, KindResolver, collection, ErrNoResolver)
	}

	unlock := e.locks.Lock(collection)
	defer unlock()

	g, err = e.load(ctx, collection)
	if err != nil {
		return nil, report, newError(op, KindStorage, collection, err)
	}
	sub, err := e.resolver.Resolve(ctx, collection, query)
	if err != nil {
		return nil, report, newError(op, KindResolver, collection, err)
	}
	g, report, err = e.mergeAndStore(ctx, op, collection, g, sub)
	if err != nil {
		return nil, report, err
	}
	span.SetAttributes(
		attribute.Int("xplor.nodes_added", report.NodesAdded),
		attribute.Int("xplor.nodes", g.NodeCount()),
	)
	return g, report, nil
}

// Merge folds sub into collection and stores the result.
func (e *Explorer) Merge(ctx context.Context, collection string, sub *graph.Graph) (g *graph.Graph, report merge.Report, err error) {
	const op = "Explorer.Merge"
	ctx, span := e.start(ctx, op, collection)
	defer func() { e.end(ctx, span, op, err) }()

	unlock := e.locks.Lock(collection)
	defer unlock()

	g, err = e.load(ctx, collection)
	if err != nil {
		return nil, report, newError(op, KindStorage, collection, err)
	}
	g, report, err = e.mergeAndStore(ctx, op, collection, g, sub)
	if err != nil {
		return nil, report, err
	}
	span.SetAttributes(attribute.Int("xplor.nodes", g.NodeCount()))
	return g, report, nil
}

// Graph returns a ranked view of collection.
//
// The ranking is seeded with the request nodes, or with every primary node
// when there are none. Request nodes are pinned into the view.
func (e *Explorer) Graph(ctx context.Context, collection string, req GraphRequest) (v *View, err error) {
	const op = "Explorer.Graph"
	ctx, span := e.start(ctx, op, collection)
	defer func() { e.end(ctx, span, op, err) }()

	unlock := e.locks.Lock(collection)
	defer unlock()

	g, err := e.load(ctx, collection)
	if err != nil {
		return nil, newError(op, KindStorage, collection, err)
	}
	v, err = e.view(g, collection, req)
	if err != nil {
		return nil, newError(op, KindInternal, collection, err)
	}
	span.SetAttributes(attribute.Int("xplor.view_nodes", v.Graph.NodeCount()))
	return v, nil
}

// Reset replaces collection with an empty graph and returns its view.
func (e *Explorer) Reset(ctx context.Context, collection string) (v *View, err error) {
	const op = "Explorer.Reset"
	ctx, span := e.start(ctx, op, collection)
	defer func() { e.end(ctx, span, op, err) }()

	unlock := e.locks.Lock(collection)
	defer unlock()

	if err := store.ValidateCollection(collection); err != nil {
		return nil, newError(op, KindValidation, collection, err)
	}
	g := e.empty(collection)
	if err := e.store.Put(ctx, collection, g); err != nil {
		return nil, newError(op, KindStorage, collection, err)
	}
	e.logger.Info("collection reset", "collection", collection)

	v, err = e.view(g, collection, GraphRequest{Reset: true, AllPrimary: true})
	return v, newError(op, KindInternal, collection, err)
}

// Expand resolves the first node of req found in collection, merges the
// result and returns the scores of the nodes closest to that node.
//
// The query text is the "id" property of Literal nodes and the "URI"
// property of any other node.
func (e *Explorer) Expand(ctx context.Context, collection string, req ExpandRequest) (scores map[string]float64, err error) {
	const op = "Explorer.Expand"
	ctx, span := e.start(ctx, op, collection)
	defer func() { e.end(ctx, span, op, err) }()

	if e.resolver == nil {
		return nil, newError(op, KindResolver, collection, ErrNoResolver)
	}

	unlock := e.locks.Lock(collection)
	defer unlock()

	g, err := e.load(ctx, collection)
	if err != nil {
		return nil, newError(op, KindStorage, collection, err)
	}

	found := g.Lookup(req.Nodes)
	if len(found) == 0 {
		xerr := newError(op, KindNotFound, collection, ErrNoMatchingNode).(*Error)
		return nil, xerr.WithContext(map[string]any{"nodes": req.Nodes})
	}
	node := g.Node(found[0])
	span.SetAttributes(attribute.String("xplor.node", node.UUID))

	query, err := queryText(g, node)
	if err != nil {
		return nil, newError(op, KindValidation, collection, err)
	}
	sub, err := e.resolver.Resolve(ctx, collection, query)
	if err != nil {
		return nil, newError(op, KindResolver, collection, err)
	}
	g, _, err = e.mergeAndStore(ctx, op, collection, g, sub)
	if err != nil {
		return nil, err
	}

	opts := e.settings.Expand
	if req.Cut != 0 {
		opts.Cut = req.Cut
	}
	if req.Length != 0 {
		opts.Length = req.Length
	}
	if len(req.Weighting) > 0 {
		opts.Weighting = req.Weighting
	}
	ranked, err := extract.Extract(g, []int{node.Index}, opts)
	if err != nil {
		return nil, newError(op, KindInternal, collection, err)
	}
	return scoreMap(g, ranked), nil
}

// Labels names each cluster of req after the nodes closest to its primary
// nodes.
func (e *Explorer) Labels(ctx context.Context, collection string, req LabelsRequest) (labels [][]extract.Label, err error) {
	const op = "Explorer.Labels"
	ctx, span := e.start(ctx, op, collection)
	span.SetAttributes(attribute.Int("xplor.clusters", len(req.Clusters)))
	defer func() { e.end(ctx, span, op, err) }()

	opts := e.settings.Labels
	if req.Count != 0 {
		opts.Count = req.Count
	}
	if len(req.Weighting) > 0 {
		opts.Weighting = req.Weighting
	}
	if req.Filter != "" {
		f, err := extract.NewFilter(req.Filter)
		if err != nil {
			return nil, newError(op, KindValidation, collection, err)
		}
		opts.Filter = f
	}

	unlock := e.locks.Lock(collection)
	defer unlock()

	g, err := e.load(ctx, collection)
	if err != nil {
		return nil, newError(op, KindStorage, collection, err)
	}
	labels, err = extract.Labels(g, collection, req.Clusters, opts)
	return labels, newError(op, KindInternal, collection, err)
}

// Health checks the store and, for a file resolver, its directory.
func (e *Explorer) Health(ctx context.Context) health.Status {
	const op = "Explorer.Health"
	ctx, span := e.start(ctx, op, "")

	checks := []health.Status{health.StoreCheck(ctx, "graphs", e.store)}
	if f, ok := e.resolver.(*resolver.Files); ok {
		checks = append(checks, health.DirCheck(f.Dir()))
	}
	status := health.Combine(checks...)

	var err error
	if status.IsUnhealthy() {
		err = errors.New(status.Message)
	}
	span.SetAttributes(attribute.String("xplor.health", status.Status))
	e.end(ctx, span, op, err)
	return status
}

// load returns the graph of collection, storing a new empty one when the
// collection is unknown. The caller holds the collection lock.
func (e *Explorer) load(ctx context.Context, collection string) (*graph.Graph, error) {
	g, err := e.store.Get(ctx, collection)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	g = e.empty(collection)
	if err := e.store.Put(ctx, collection, g); err != nil {
		return nil, err
	}
	e.logger.Info("collection created", "collection", collection)
	return g, nil
}

func (e *Explorer) empty(collection string) *graph.Graph {
	s := e.schema(collection)
	return graph.Empty(collection, &s)
}

// mergeAndStore merges sub into g and writes g back. The store is only
// written once the merge has returned.
func (e *Explorer) mergeAndStore(ctx context.Context, op, collection string, g, sub *graph.Graph) (*graph.Graph, merge.Report, error) {
	g, report, err := e.merger.Merge(ctx, collection, g, sub)
	if err != nil {
		return nil, report, newError(op, KindValidation, collection, err)
	}
	if err := e.store.Put(ctx, collection, g); err != nil {
		return nil, report, newError(op, KindStorage, collection, err)
	}
	if len(report.Skipped) > 0 {
		e.logger.Warn("merge skipped elements",
			"collection", collection,
			"skipped", len(report.Skipped),
		)
	}
	return g, report, nil
}

func (e *Explorer) view(g *graph.Graph, collection string, req GraphRequest) (*View, error) {
	nodes := req.Nodes
	if req.Reset {
		nodes = nil
	}
	pinned := g.Lookup(nodes)

	sel := extract.Selection{
		Seeds:      pinned,
		Pinned:     pinned,
		Cut:        e.settings.Graph.Cut,
		AllPrimary: req.AllPrimary,
		Length:     e.settings.Graph.Length,
		Weighting:  e.settings.Graph.Weighting,
	}
	if len(sel.Seeds) == 0 {
		sel.Seeds = g.NodesOfType(graph.PrimaryType(collection))
	}
	if req.Cut != 0 {
		sel.Cut = req.Cut
	}
	if req.Length != 0 {
		sel.Length = req.Length
	}
	if len(req.Weighting) > 0 {
		sel.Weighting = req.Weighting
	}
	if req.Filter != "" {
		f, err := extract.NewFilter(req.Filter)
		if err != nil {
			return nil, err
		}
		sel.Filter = f
	}

	sub, ranked, err := extract.Select(g, collection, sel)
	if err != nil {
		return nil, err
	}
	return &View{Graph: sub, Scores: scoreMap(g, ranked)}, nil
}

func (e *Explorer) start(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	ctx, span := e.tracer.Start(ctx, op)
	if collection != "" {
		span.SetAttributes(attribute.String("xplor.collection", collection))
	}
	return ctx, span
}

func (e *Explorer) end(ctx context.Context, span trace.Span, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	e.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
	span.End()
}

// queryText returns the text an expansion of n resolves.
func queryText(g *graph.Graph, n *graph.Node) (string, error) {
	prop := graph.PropURI
	if t, err := g.NodeTypes.Resolve(n.Type); err == nil && t.Name == graph.TypeLiteral {
		prop = graph.PropID
	}
	q, ok := n.Text(prop)
	if !ok || q == "" {
		return "", ErrEmptyQueryText
	}
	return q, nil
}

func scoreMap(g *graph.Graph, ranked []prox.Scored) map[string]float64 {
	out := make(map[string]float64, len(ranked))
	for _, r := range ranked {
		out[g.Node(r.Node).UUID] = r.Score
	}
	return out
}
