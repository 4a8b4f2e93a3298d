package graph

import "errors"

// Sentinel errors for graph operations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrUnknownType indicates that a node or edge references a type UUID that
	// is not present in the registry. During a merge this skips the element.
	//
	// Example:
	//	if _, err := g.NodeTypes.Resolve(n.Type); errors.Is(err, graph.ErrUnknownType) {
	//	    // the element cannot be merged
	//	}
	ErrUnknownType = errors.New("unknown type")

	// ErrTypeConflict indicates that a type with a new name tried to reuse the
	// UUID of an already registered type.
	ErrTypeConflict = errors.New("type uuid already registered under another name")

	// ErrNodeNotFound indicates that a node index or UUID does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateUUID indicates that a node or edge UUID is already taken
	// within the graph.
	ErrDuplicateUUID = errors.New("duplicate uuid")

	// ErrInvalidDocument indicates that a persisted document cannot be turned
	// back into a graph (dangling edge endpoints, duplicate UUIDs, bad types).
	ErrInvalidDocument = errors.New("invalid graph document")
)
