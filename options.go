package xplor

import (
	"log/slog"

	"github.com/zero-day-ai/xplor/extract"
	"github.com/zero-day-ai/xplor/graph"
	"github.com/zero-day-ai/xplor/merge"
	"github.com/zero-day-ai/xplor/prox"
	"github.com/zero-day-ai/xplor/resolver"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Explorer.
type Option func(*Explorer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Explorer) {
		e.logger = logger
	}
}

// WithTracer sets the tracer every operation opens a span on.
// Defaults to a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Explorer) {
		e.tracer = tracer
	}
}

// WithMeter sets the meter for operation and merge counters.
// Defaults to a no-op meter.
func WithMeter(meter metric.Meter) Option {
	return func(e *Explorer) {
		e.meter = meter
	}
}

// WithResolver sets the resolver answering Search and Expand queries.
func WithResolver(r resolver.Resolver) Option {
	return func(e *Explorer) {
		e.resolver = r
	}
}

// WithMergeEngine replaces the merge engine built from the logger and
// meter of the Explorer.
func WithMergeEngine(m *merge.Engine) Option {
	return func(e *Explorer) {
		e.merger = m
	}
}

// WithSchema sets the schema new collections are seeded with.
// Defaults to graph.DefaultSchema.
func WithSchema(fn func(collection string) graph.Schema) Option {
	return func(e *Explorer) {
		e.schema = fn
	}
}

// WithSettings sets the defaults applied to zero request fields.
func WithSettings(s Settings) Option {
	return func(e *Explorer) {
		e.settings = s
	}
}

// Settings holds the defaults of the exploration operations.
type Settings struct {
	// Graph bounds graph views. Default: cut 100, length 3, uniform.
	Graph extract.Options

	// Expand bounds expansions. Default: cut 50, length 3, uniform.
	Expand extract.Options

	// Labels bounds cluster labelling. Default: 2 labels over cut 300,
	// length 3, uniform.
	Labels extract.LabelOptions
}

// DefaultSettings returns the defaults used when WithSettings is not given.
func DefaultSettings() Settings {
	return Settings{
		Graph:  extract.Options{Cut: 100, Length: extract.DefaultLength, Weighting: prox.Uniform},
		Expand: extract.DefaultOptions(),
		Labels: extract.DefaultLabelOptions(),
	}
}
