// Package storage persists the recent-quotes list and the favorite scripts.
//
// Both repositories store a small JSON list under one key per owner on a
// ports.KeyValueStore. Two stores are provided: MemoryStore for a single
// process and RedisStore for a shared deployment. Writes to one key are
// serialized by the store, so concurrent toggles never lose updates.
package storage
