package xplor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/zero-day-ai/xplor/extract"
	"github.com/zero-day-ai/xplor/prox"
	"github.com/zero-day-ai/xplor/resolver"
	"github.com/zero-day-ai/xplor/store"
)

// Sentinel errors returned by Explorer operations.
var (
	// ErrNoMatchingNode indicates that none of the requested node UUIDs
	// exists in the collection.
	ErrNoMatchingNode = errors.New("no matching node")

	// ErrNoResolver indicates an operation needing a resolver on an Explorer
	// built without one.
	ErrNoResolver = errors.New("no resolver configured")

	// ErrEmptyQueryText indicates a node to expand carries no query text.
	ErrEmptyQueryText = errors.New("node has no query text")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a requested node was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to request validation.
	KindValidation = "validation"

	// KindStorage represents failures of the graph store.
	KindStorage = "storage"

	// KindResolver represents failures to resolve a query into a subgraph.
	KindResolver = "resolver"

	// KindInternal represents unexpected failures.
	KindInternal = "internal"
)

// Error is a structured error carrying the failed operation and the
// category of the failure.
//
// Error supports unwrapping, so errors.Is and errors.As reach the underlying
// sentinel errors of the store, prox and extract packages.
//
// Example usage:
//
//	var xerr *xplor.Error
//	if errors.As(err, &xerr) && xerr.Kind == xplor.KindNotFound {
//		...
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Explorer.Expand").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error.
	Err error

	// Context holds optional debugging information such as the collection.
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("xplor: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("xplor: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("xplor: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches an *Error target by Kind, and by Op when the target sets one.
// Other targets are matched against the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// validationErrors are reported with KindValidation whatever the step that
// returned them.
var validationErrors = []error{
	prox.ErrInvalidHops,
	prox.ErrInvalidCut,
	prox.ErrInvalidSeed,
	prox.ErrUnknownRule,
	extract.ErrInvalidFilter,
	store.ErrInvalidCollection,
	resolver.ErrEmptyQuery,
	ErrEmptyQueryText,
}

// newError wraps err for op. Known validation errors override kind. A nil
// err yields nil, and an err that already is an *Error is returned as is.
func newError(op, kind, collection string, err error) error {
	if err == nil {
		return nil
	}
	var xerr *Error
	if errors.As(err, &xerr) {
		return err
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			kind = KindValidation
			break
		}
	}
	e := &Error{Op: op, Kind: kind, Err: err}
	if collection != "" {
		e.Context = map[string]any{"collection": collection}
	}
	return e
}

// CloseWithLog closes closer and logs a failure at warning level instead of
// returning it. Intended for defer statements. If logger is nil,
// slog.Default() is used.
//
// Example usage:
//
//	defer xplor.CloseWithLog(explorer, logger, "explorer")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
