// Package identity derives the identity key that decides whether an incoming
// node already exists in a canonical graph.
//
// # Keys
//
// Keys are derived, never stored:
//
//   - nodes of the primary content type of a collection (graph.PrimaryType)
//     are keyed on their "id" property;
//   - any other node is keyed on its type name concatenated with its label.
//
// The Primary flag keeps the two key spaces apart, so an article with id
// "keywordsgraph" never collides with a keyword labelled "graph".
//
// # Index
//
// Build scans a graph once and maps every key to the node carrying it. The
// merge engine rebuilds the index at the start of every merge and keeps it in
// sync with Add while inserting nodes. A stale index would let the same node
// be inserted twice.
//
//	ix := identity.Build(collection, canonical)
//	key, err := ix.Key(node)
//	if err != nil {
//	    // missing discriminant or unknown type
//	}
//	i, found, err := ix.Lookup(key)
//
// When two canonical nodes already share a key the index marks it ambiguous
// and Lookup returns ErrAmbiguousIdentity instead of picking one of them.
package identity
