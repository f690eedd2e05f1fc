package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound indicates a record is absent from the entry store.
	ErrNotFound = errors.New("cache: record not found")

	// ErrCorruptRecord indicates a record exists but cannot be decoded.
	// Callers treat it as a miss; the facade additionally prunes the
	// stale index entry so the corruption does not recur on every read.
	ErrCorruptRecord = errors.New("cache: record corrupt")

	// ErrInvalidKey indicates a key is empty or whitespace-only.
	ErrInvalidKey = errors.New("cache: key is invalid")

	// ErrNoDirectory is returned by New when the cache is enabled but no
	// directory is configured.
	ErrNoDirectory = errors.New("cache: directory is not configured")
)
