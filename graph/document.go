package graph

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Document is the persisted layout of a graph. Store backends and resolvers
// exchange graphs in this shape, encoded as JSON or YAML.
type Document struct {
	Collection string       `json:"collection" yaml:"collection"`
	NodeTypes  []TypeDef    `json:"node_types" yaml:"node_types"`
	EdgeTypes  []TypeDef    `json:"edge_types" yaml:"edge_types"`
	Nodes      []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges      []EdgeRecord `json:"edges" yaml:"edges"`
	Pinned     []string     `json:"pinned_nodes" yaml:"pinned_nodes"`
	Provenance []Query      `json:"provenance_log" yaml:"provenance_log"`
	Stats      Meta         `json:"stats" yaml:"stats"`

	// Query is the originating query of an incoming subgraph.
	Query *Query `json:"query,omitempty" yaml:"query,omitempty"`
}

// NodeRecord is the persisted form of a node.
type NodeRecord struct {
	UUID       string         `json:"uuid" yaml:"uuid"`
	TypeUUID   string         `json:"type_uuid" yaml:"type_uuid"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// EdgeRecord is the persisted form of an edge.
type EdgeRecord struct {
	UUID       string         `json:"uuid" yaml:"uuid"`
	TypeUUID   string         `json:"type_uuid" yaml:"type_uuid"`
	SourceUUID string         `json:"source_uuid" yaml:"source_uuid"`
	TargetUUID string         `json:"target_uuid" yaml:"target_uuid"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// Document returns the persisted layout of g.
func (g *Graph) Document() Document {
	doc := Document{
		Collection: g.Collection,
		NodeTypes:  g.NodeTypes.All(),
		EdgeTypes:  g.EdgeTypes.All(),
		Nodes:      make([]NodeRecord, len(g.nodes)),
		Edges:      make([]EdgeRecord, len(g.edges)),
		Pinned:     append([]string{}, g.Starred...),
		Provenance: append([]Query{}, g.Queries...),
		Stats:      g.Meta,
	}
	if g.Query != nil {
		q := *g.Query
		doc.Query = &q
	}
	for i, n := range g.nodes {
		doc.Nodes[i] = NodeRecord{UUID: n.UUID, TypeUUID: n.Type, Properties: maps.Clone(n.Properties)}
	}
	for i, e := range g.edges {
		doc.Edges[i] = EdgeRecord{
			UUID:       e.UUID,
			TypeUUID:   e.Type,
			SourceUUID: g.nodes[e.Source].UUID,
			TargetUUID: g.nodes[e.Target].UUID,
			Properties: maps.Clone(e.Properties),
		}
	}
	return doc
}

// FromDocument rebuilds a graph from its persisted layout. Statistics are
// recomputed; owner and date are kept.
func FromDocument(doc Document) (*Graph, error) {
	g := New(doc.Collection)

	for _, t := range doc.NodeTypes {
		if _, err := g.NodeTypes.Register(t); err != nil {
			return nil, fmt.Errorf("%w: node type %q: %v", ErrInvalidDocument, t.Name, err)
		}
	}
	for _, t := range doc.EdgeTypes {
		if _, err := g.EdgeTypes.Register(t); err != nil {
			return nil, fmt.Errorf("%w: edge type %q: %v", ErrInvalidDocument, t.Name, err)
		}
	}

	for _, rec := range doc.Nodes {
		if rec.UUID == "" {
			return nil, fmt.Errorf("%w: node without uuid", ErrInvalidDocument)
		}
		if _, err := g.AddNode(Node{UUID: rec.UUID, Type: rec.TypeUUID, Properties: rec.Properties}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	for _, rec := range doc.Edges {
		src, ok := g.nodeByUUID[rec.SourceUUID]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s: unknown source %q", ErrInvalidDocument, rec.UUID, rec.SourceUUID)
		}
		dst, ok := g.nodeByUUID[rec.TargetUUID]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s: unknown target %q", ErrInvalidDocument, rec.UUID, rec.TargetUUID)
		}
		e := Edge{UUID: rec.UUID, Source: src, Target: dst, Type: rec.TypeUUID, Properties: rec.Properties}
		if _, err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}

	g.nodeSeq = max(g.nodeSeq, len(g.nodes))
	g.edgeSeq = max(g.edgeSeq, len(g.edges))
	if doc.Pinned != nil {
		g.Starred = append(g.Starred, doc.Pinned...)
	}
	if doc.Provenance != nil {
		g.Queries = append(g.Queries, doc.Provenance...)
	}
	if doc.Query != nil {
		q := *doc.Query
		g.Query = &q
	}
	g.Meta.Owner = doc.Stats.Owner
	g.Meta.Date = doc.Stats.Date
	g.RecomputeStats()
	return g, nil
}

// MarshalJSON encodes g in its persisted layout.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Document())
}

// UnmarshalJSON decodes a persisted layout into g, replacing its content.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	decoded, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}
