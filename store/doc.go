// Package store persists the canonical graph of each collection.
//
// A Store maps collection identifiers to graphs. Four backends are provided:
//
//   - Memory keeps graphs in process memory and hands out the stored
//     instance itself.
//   - Badger keeps graphs in an embedded Badger database.
//   - Redis keeps one string value per collection.
//   - Etcd keeps one key per collection under a namespace prefix.
//
// Persistent backends encode graphs in the JSON form of graph.Document, so a
// Get returns a fresh graph and changes become visible only after Put.
//
// Stores do not order concurrent writers. Callers serialise the
// read-merge-write sequence of a collection with a Locker:
//
//	unlock := locks.Lock(collection)
//	defer unlock()
//	g, err := s.Get(ctx, collection)
//	...
//	err = s.Put(ctx, collection, g)
package store
