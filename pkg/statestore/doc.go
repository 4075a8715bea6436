// Package statestore persists workspace snapshots.
//
// FileStore keeps the snapshot as JSON under a single namespaced entry of a
// state file, leaving other entries in the same file untouched. MemoryStore
// keeps an encoded copy in memory and is meant for tests and embedding.
package statestore
