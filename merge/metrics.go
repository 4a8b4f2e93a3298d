package merge

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// mergeMetrics holds the instruments recorded after every merge.
type mergeMetrics struct {
	nodesAdded metric.Int64Counter
	edgesAdded metric.Int64Counter
	skipped    metric.Int64Counter
}

func newMergeMetrics(meter metric.Meter) (*mergeMetrics, error) {
	m := &mergeMetrics{}
	var err error

	m.nodesAdded, err = meter.Int64Counter(
		"xplor.merge.nodes_added",
		metric.WithDescription("Nodes inserted into canonical graphs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create nodes_added counter: %w", err)
	}

	m.edgesAdded, err = meter.Int64Counter(
		"xplor.merge.edges_added",
		metric.WithDescription("Edges inserted into canonical graphs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create edges_added counter: %w", err)
	}

	m.skipped, err = meter.Int64Counter(
		"xplor.merge.skipped",
		metric.WithDescription("Incoming elements left out of a merge"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create skipped counter: %w", err)
	}

	return m, nil
}

func (m *mergeMetrics) record(ctx context.Context, collection string, r Report) {
	coll := attribute.String("collection", collection)
	m.nodesAdded.Add(ctx, int64(r.NodesAdded), metric.WithAttributes(coll))
	m.edgesAdded.Add(ctx, int64(r.EdgesAdded), metric.WithAttributes(coll))

	byReason := make(map[SkipReason]int64)
	for _, s := range r.Skipped {
		byReason[s.Reason]++
	}
	for reason, n := range byReason {
		m.skipped.Add(ctx, n, metric.WithAttributes(coll, attribute.String("reason", string(reason))))
	}
}
