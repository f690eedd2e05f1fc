// Package cache implements the persistent result cache shared by all
// data-source integrations.
//
// Entries are stored one file per key under a per-source subdirectory,
// with a single JSON index tracking location, size, creation time, and
// TTL for every live key. Expiry is lazy: an entry past its TTL is
// removed when a read or an explicit sweep touches it, never by a
// background timer. When a write would push the cache past its size
// budget, the oldest entries are evicted first.
//
// The index is loaded, mutated, and saved on every mutating call rather
// than held in memory, so multiple processes can share one cache
// directory. This is best-effort only: two concurrent writers that both
// load the index before either saves will lose one writer's structural
// change. The workload is idempotent re-fetch-and-cache, so the lost
// update costs a redundant upstream fetch, not correctness. Within a
// single process a mutex serializes all mutations.
//
// The cache is an optimization, never a correctness dependency: every
// internal failure degrades to a miss or a no-op, and a disabled cache
// behaves as a pass-through.
package cache
