package graph

import (
	"fmt"
	"maps"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Node is a vertex of the graph.
type Node struct {
	// Index is the position of the node in its graph. It is reassigned when a
	// subgraph is induced and is never persisted.
	Index int `json:"-"`

	// UUID is stable and unique within the collection.
	UUID string `json:"uuid"`

	// Type is the UUID of the node type.
	Type string `json:"type_uuid"`

	// Properties holds the property bag, validated against the type schema at
	// insertion time.
	Properties map[string]any `json:"properties"`
}

// Label returns the "label" property rendered as a string.
func (n *Node) Label() string {
	return stringProperty(n.Properties, PropLabel)
}

// Text returns the named property rendered as a string. The boolean is false
// when the property is absent or nil.
func (n *Node) Text(name string) (string, bool) {
	if v, ok := n.Properties[name]; !ok || v == nil {
		return "", false
	}
	return stringProperty(n.Properties, name), true
}

// Edge is a directed edge between two nodes of the same graph.
type Edge struct {
	// Index is the position of the edge in its graph.
	Index int `json:"-"`

	UUID string `json:"uuid"`

	// Source and Target are node indices.
	Source int `json:"-"`
	Target int `json:"-"`

	// Type is the UUID of the edge type.
	Type string `json:"type_uuid"`

	Properties map[string]any `json:"properties"`
}

// Other returns the endpoint of e opposite to v.
func (e *Edge) Other(v int) int {
	if e.Source == v {
		return e.Target
	}
	return e.Source
}

// Weight returns the numeric "weight" property of the edge.
// The boolean is false when the property is missing or not numeric.
func (e *Edge) Weight() (float64, bool) {
	return numericProperty(e.Properties, PropWeight)
}

// Query is a provenance entry: the descriptor of a query whose result was
// merged into a collection.
type Query struct {
	ID     string    `json:"id" yaml:"id"`
	Q      string    `json:"q" yaml:"q"`
	Field  string    `json:"field,omitempty" yaml:"field,omitempty"`
	URL    string    `json:"url,omitempty" yaml:"url,omitempty"`
	Source string    `json:"source,omitempty" yaml:"source,omitempty"`
	Date   time.Time `json:"date" yaml:"date"`
}

// NewQuery creates a query descriptor with a fresh ID and the current time.
func NewQuery(q string) *Query {
	return &Query{
		ID:   uuid.NewString(),
		Q:    q,
		Date: time.Now().UTC(),
	}
}

// Graph is the canonical typed graph of one collection, or an incoming
// subgraph waiting to be merged into one.
type Graph struct {
	// Collection is the identifier of the owning collection.
	Collection string

	// NodeTypes and EdgeTypes are the type registries.
	NodeTypes *Registry
	EdgeTypes *Registry

	// Starred holds the UUIDs of pinned nodes.
	Starred []string

	// Queries is the provenance log, oldest first.
	Queries []Query

	// Query is the descriptor of the query that produced this graph. It is
	// set on incoming subgraphs and appended to the provenance log on merge.
	Query *Query

	// Meta holds aggregate statistics. See RecomputeStats.
	Meta Meta

	nodes      []*Node
	edges      []*Edge
	nodeByUUID map[string]int
	edgeByUUID map[string]int
	pairs      map[[2]int]int
	incident   [][]int
	nodeSeq    int
	edgeSeq    int
}

// New creates a graph with empty registries.
func New(collection string) *Graph {
	return &Graph{
		Collection: collection,
		NodeTypes:  NewRegistry(),
		EdgeTypes:  NewRegistry(),
		Starred:    make([]string, 0),
		Queries:    make([]Query, 0),
		nodeByUUID: make(map[string]int),
		edgeByUUID: make(map[string]int),
		pairs:      make(map[[2]int]int),
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node at index i, or nil when i is out of range.
func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// Edge returns the edge at index i, or nil when i is out of range.
func (g *Graph) Edge(i int) *Edge {
	if i < 0 || i >= len(g.edges) {
		return nil
	}
	return g.edges[i]
}

// Nodes returns the nodes in index order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in index order. The slice must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeByUUID returns the node with the given UUID.
func (g *Graph) NodeByUUID(id string) (*Node, bool) {
	i, ok := g.nodeByUUID[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// EdgeByUUID returns the edge with the given UUID.
func (g *Graph) EdgeByUUID(id string) (*Edge, bool) {
	i, ok := g.edgeByUUID[id]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

// Lookup returns the indices of the nodes whose UUID is in ids, in ascending
// index order. Unknown UUIDs are ignored.
func (g *Graph) Lookup(ids []string) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := g.nodeByUUID[id]
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// NodesOfType returns the indices of the nodes whose type UUID is typeUUID.
func (g *Graph) NodesOfType(typeUUID string) []int {
	var out []int
	for _, n := range g.nodes {
		if n.Type == typeUUID {
			out = append(out, n.Index)
		}
	}
	return out
}

// EdgeBetween returns the first edge directed from src to dst.
func (g *Graph) EdgeBetween(src, dst int) (*Edge, bool) {
	i, ok := g.pairs[[2]int{src, dst}]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

// Incident returns the indices of the edges touching v in either direction.
// A self loop is listed once.
func (g *Graph) Incident(v int) []int {
	if v < 0 || v >= len(g.incident) {
		return nil
	}
	return g.incident[v]
}

// NextNodeUUID returns the UUID the next inserted node will receive when it
// has none. The counter only grows and always stays above every numeric UUID
// in the graph, so generated UUIDs are strictly increasing.
func (g *Graph) NextNodeUUID() string {
	for {
		id := strconv.Itoa(g.nodeSeq)
		if _, taken := g.nodeByUUID[id]; !taken {
			return id
		}
		g.nodeSeq++
	}
}

// NextEdgeUUID is the edge counterpart of NextNodeUUID.
func (g *Graph) NextEdgeUUID() string {
	for {
		id := strconv.Itoa(g.edgeSeq)
		if _, taken := g.edgeByUUID[id]; !taken {
			return id
		}
		g.edgeSeq++
	}
}

// AddNode inserts a copy of n and returns the stored node.
// A node without UUID receives NextNodeUUID. Types are not checked here; the
// merge engine is responsible for schema validation.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.UUID == "" {
		n.UUID = g.NextNodeUUID()
	}
	if _, taken := g.nodeByUUID[n.UUID]; taken {
		return nil, fmt.Errorf("%w: node %s", ErrDuplicateUUID, n.UUID)
	}

	node := &Node{
		Index:      len(g.nodes),
		UUID:       n.UUID,
		Type:       n.Type,
		Properties: maps.Clone(n.Properties),
	}
	if node.Properties == nil {
		node.Properties = make(map[string]any)
	}

	g.nodes = append(g.nodes, node)
	g.incident = append(g.incident, nil)
	g.nodeByUUID[node.UUID] = node.Index
	advance(&g.nodeSeq, node.UUID)
	return node, nil
}

// AddEdge inserts a copy of e and returns the stored edge.
// Both endpoints must exist. Parallel edges are accepted; EdgeBetween keeps
// returning the first one.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	if g.Node(e.Source) == nil {
		return nil, fmt.Errorf("%w: edge source %d", ErrNodeNotFound, e.Source)
	}
	if g.Node(e.Target) == nil {
		return nil, fmt.Errorf("%w: edge target %d", ErrNodeNotFound, e.Target)
	}

	if e.UUID == "" {
		e.UUID = g.NextEdgeUUID()
	}
	if _, taken := g.edgeByUUID[e.UUID]; taken {
		return nil, fmt.Errorf("%w: edge %s", ErrDuplicateUUID, e.UUID)
	}

	edge := &Edge{
		Index:      len(g.edges),
		UUID:       e.UUID,
		Source:     e.Source,
		Target:     e.Target,
		Type:       e.Type,
		Properties: maps.Clone(e.Properties),
	}
	if edge.Properties == nil {
		edge.Properties = make(map[string]any)
	}

	g.edges = append(g.edges, edge)
	g.edgeByUUID[edge.UUID] = edge.Index
	pair := [2]int{edge.Source, edge.Target}
	if _, exists := g.pairs[pair]; !exists {
		g.pairs[pair] = edge.Index
	}
	g.incident[edge.Source] = append(g.incident[edge.Source], edge.Index)
	if edge.Target != edge.Source {
		g.incident[edge.Target] = append(g.incident[edge.Target], edge.Index)
	}
	advance(&g.edgeSeq, edge.UUID)
	return edge, nil
}

// IsStarred reports whether the node with the given UUID is pinned.
func (g *Graph) IsStarred(id string) bool {
	for _, s := range g.Starred {
		if s == id {
			return true
		}
	}
	return false
}

// Subgraph returns the subgraph induced on the given node indices. Nodes keep
// their UUIDs and are renumbered in ascending order of their index in g.
// Out of range indices are ignored.
func (g *Graph) Subgraph(indices []int) *Graph {
	keep := make([]int, 0, len(indices))
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if g.Node(i) == nil {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		keep = append(keep, i)
	}
	sort.Ints(keep)

	sub := New(g.Collection)
	sub.NodeTypes = g.NodeTypes.Clone()
	sub.EdgeTypes = g.EdgeTypes.Clone()
	sub.Queries = append(sub.Queries, g.Queries...)
	sub.Meta.Owner = g.Meta.Owner
	sub.Meta.Date = g.Meta.Date
	sub.nodeSeq = g.nodeSeq
	sub.edgeSeq = g.edgeSeq

	remap := make(map[int]int, len(keep))
	for _, i := range keep {
		// UUIDs are unique in g, so AddNode cannot fail here.
		n, _ := sub.AddNode(*g.nodes[i])
		remap[i] = n.Index
		if g.IsStarred(n.UUID) {
			sub.Starred = append(sub.Starred, n.UUID)
		}
	}
	for _, e := range g.edges {
		src, okS := remap[e.Source]
		dst, okT := remap[e.Target]
		if !okS || !okT {
			continue
		}
		cp := *e
		cp.Source, cp.Target = src, dst
		_, _ = sub.AddEdge(cp)
	}

	sub.RecomputeStats()
	return sub
}

// advance moves seq past id when id is a numeric UUID at or above it.
func advance(seq *int, id string) {
	if n, err := strconv.Atoi(id); err == nil && n >= *seq {
		*seq = n + 1
	}
}

func stringProperty(props map[string]any, name string) string {
	v, ok := props[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func numericProperty(props map[string]any, name string) (float64, bool) {
	v, ok := props[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
