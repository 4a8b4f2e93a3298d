package extract

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/zero-day-ai/xplor/graph"
)

// ErrInvalidFilter is returned when a filter expression does not compile or
// does not evaluate to a boolean.
var ErrInvalidFilter = errors.New("extract: invalid filter")

// Filter is a compiled CEL predicate over ranked nodes.
//
// The expression sees these variables:
//
//	uuid      string  node UUID
//	type      string  node type name ("" when the type is unknown)
//	type_uuid string  node type UUID
//	label     string  "label" property
//	primary   bool    whether the node is of the primary content type
//	score     double  proximity score
//	props     map     all node properties
//
// Example: `type == "keywords" && size(label) > 2`.
type Filter struct {
	expr string
	prg  cel.Program
}

var filterEnv = func() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("uuid", cel.StringType),
		cel.Variable("type", cel.StringType),
		cel.Variable("type_uuid", cel.StringType),
		cel.Variable("label", cel.StringType),
		cel.Variable("primary", cel.BoolType),
		cel.Variable("score", cel.DoubleType),
		cel.Variable("props", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("extract: filter environment: %v", err))
	}
	return env
}()

// NewFilter compiles expr.
func NewFilter(expr string) (*Filter, error) {
	ast, iss := filterEnv.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, iss.Err())
	}
	prg, err := filterEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.expr }

// Match evaluates the filter on node n of g, ranked with score.
func (f *Filter) Match(g *graph.Graph, collection string, n *graph.Node, score float64) (bool, error) {
	typeName := ""
	if def, err := g.NodeTypes.Resolve(n.Type); err == nil {
		typeName = def.Name
	}
	props := n.Properties
	if props == nil {
		props = map[string]any{}
	}

	out, _, err := f.prg.Eval(map[string]any{
		"uuid":      n.UUID,
		"type":      typeName,
		"type_uuid": n.Type,
		"label":     n.Label(),
		"primary":   n.Type == graph.PrimaryType(collection),
		"score":     score,
		"props":     props,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, f.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s: result is %T, not bool", ErrInvalidFilter, f.expr, out.Value())
	}
	return b, nil
}

// apply removes from scores the nodes f rejects.
func (f *Filter) apply(g *graph.Graph, collection string, scores map[int]float64) error {
	for v, s := range scores {
		ok, err := f.Match(g, collection, g.Node(v), s)
		if err != nil {
			return err
		}
		if !ok {
			delete(scores, v)
		}
	}
	return nil
}
