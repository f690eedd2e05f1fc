package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/observe"
)

// Defaults applied when the configuration leaves a field zero.
const (
	DefaultTTL          = 24 * time.Hour
	DefaultMaxSizeBytes = 100 << 20 // 100 MiB
)

// Config is the static cache configuration.
type Config struct {
	// Enabled gates the whole cache. When false every read misses and
	// every write is a no-op; no files are touched.
	Enabled bool

	// Dir is the cache directory. Required when Enabled.
	Dir string

	// TTLDefault applies to Set calls that pass a non-positive TTL.
	TTLDefault time.Duration

	// MaxSizeBytes bounds the total size of tracked entries. Writes
	// that would exceed it trigger oldest-first eviction.
	MaxSizeBytes int64
}

// Cache is the facade over the index, entry store, and eviction policy.
// All operations are safe for concurrent use within a process.
type Cache struct {
	cfg   Config
	mu    sync.Mutex
	store *entryStore
	index IndexStore
	log   observe.Logger
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger attaches a logger for best-effort diagnostics. Failures
// inside the cache are logged, never propagated as fatal.
func WithLogger(log observe.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// WithClock overrides the time source. Used by tests to cross TTL
// boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithIndexStore overrides the index persistence strategy.
func WithIndexStore(s IndexStore) Option {
	return func(c *Cache) { c.index = s }
}

// New constructs a Cache. A disabled configuration yields an inert cache
// that never touches the filesystem.
func New(cfg Config, opts ...Option) (*Cache, error) {
	c := &Cache{cfg: cfg, now: time.Now}
	if c.cfg.TTLDefault <= 0 {
		c.cfg.TTLDefault = DefaultTTL
	}
	if c.cfg.MaxSizeBytes <= 0 {
		c.cfg.MaxSizeBytes = DefaultMaxSizeBytes
	}
	for _, opt := range opts {
		opt(c)
	}
	if !cfg.Enabled {
		return c, nil
	}

	if cfg.Dir == "" {
		return nil, ErrNoDirectory
	}
	if err := os.MkdirAll(cfg.Dir, recordDirPerm); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	store, err := newEntryStore(cfg.Dir)
	if err != nil {
		return nil, err
	}
	c.store = store
	if c.index == nil {
		c.index = newFileIndexStore(cfg.Dir)
	}
	return c, nil
}

// Enabled reports whether the cache is active.
func (c *Cache) Enabled() bool {
	return c != nil && c.cfg.Enabled
}

// Get returns the cached value for key, or (nil, false) on miss. An
// entry past its TTL is removed on the spot and reported as a miss. A
// dangling or corrupt backing record prunes the index entry before the
// miss is returned, so the same failure does not recur.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	if !c.Enabled() {
		return nil, false
	}
	if err := ValidateKey(key); err != nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ix := c.index.Load()
	ent, ok := ix.Entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(ent.CreatedAt) > ent.TTL {
		c.dropLocked(ix, key, ent)
		return nil, false
	}

	rec, err := c.store.read(ent.Record)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logWarn("cache read failed, pruning entry", "key", key, "err", err)
		}
		c.dropLocked(ix, key, ent)
		return nil, false
	}
	return rec.Value, true
}

// Set stores value under key with the given TTL and source label,
// fully replacing any prior entry for key. A non-positive TTL resolves
// to the configured default. If the write would exceed the size budget,
// the eviction policy runs first. Returns an error only for local
// storage failures; callers treat those as best-effort.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration, source string) error {
	if !c.Enabled() {
		return nil
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.cfg.TTLDefault
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	rec := record{
		Key:       key,
		Source:    source,
		Value:     payload,
		CreatedAt: now,
		TTL:       ttl,
	}
	relPath, data, err := c.store.encode(rec)
	if err != nil {
		return err
	}
	size := int64(len(data))

	ix := c.index.Load()

	// A replace must not count twice: the old entry leaves the books
	// before headroom is computed, and its record is removed if the new
	// one lands elsewhere (source changed).
	if old, ok := ix.Entries[key]; ok {
		delete(ix.Entries, key)
		ix.RecomputeTotal()
		if old.Record != relPath {
			if err := c.store.delete(old.Record); err != nil {
				c.logWarn("stale record delete failed", "key", key, "err", err)
			}
		}
	}

	c.reclaim(ix, size)

	if err := c.store.write(relPath, data); err != nil {
		return err
	}
	ix.Entries[key] = IndexEntry{
		Record:    relPath,
		Source:    source,
		CreatedAt: now,
		TTL:       ttl,
		SizeBytes: size,
	}
	ix.RecomputeTotal()
	if err := c.index.Save(ix); err != nil {
		return fmt.Errorf("cache: save index: %w", err)
	}
	return nil
}

// Remove deletes key's record and index entry. Removing an absent key
// is not an error.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ix := c.index.Load()
	ent, ok := ix.Entries[key]
	if !ok {
		return nil
	}
	if err := c.store.delete(ent.Record); err != nil {
		c.logWarn("record delete failed", "key", key, "err", err)
	}
	delete(ix.Entries, key)
	ix.RecomputeTotal()
	if err := c.index.Save(ix); err != nil {
		return fmt.Errorf("cache: save index: %w", err)
	}
	return nil
}

// Clear deletes all entries, or only those whose source label matches
// exactly when source is non-empty. Returns the number of entries
// cleared.
func (c *Cache) Clear(ctx context.Context, source string) (int, error) {
	if !c.Enabled() {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ix := c.index.Load()
	cleared := 0
	for key, ent := range ix.Entries {
		if source != "" && ent.Source != source {
			continue
		}
		if err := c.store.delete(ent.Record); err != nil {
			c.logWarn("record delete failed", "key", key, "err", err)
		}
		delete(ix.Entries, key)
		cleared++
	}
	if cleared == 0 {
		return 0, nil
	}
	ix.RecomputeTotal()
	if err := c.index.Save(ix); err != nil {
		return cleared, fmt.Errorf("cache: save index: %w", err)
	}
	return cleared, nil
}

// InvalidateExpired sweeps the whole index and deletes every entry past
// its TTL. The index is persisted once at the end, only if something
// was removed. Returns the number of invalidated entries.
func (c *Cache) InvalidateExpired(ctx context.Context) (int, error) {
	if !c.Enabled() {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ix := c.index.Load()
	now := c.now()
	invalidated := 0
	for key, ent := range ix.Entries {
		if now.Sub(ent.CreatedAt) <= ent.TTL {
			continue
		}
		if err := c.store.delete(ent.Record); err != nil {
			c.logWarn("record delete failed", "key", key, "err", err)
		}
		delete(ix.Entries, key)
		invalidated++
	}
	if invalidated == 0 {
		return 0, nil
	}
	ix.RecomputeTotal()
	ix.LastCleanupAt = now
	if err := c.index.Save(ix); err != nil {
		return invalidated, fmt.Errorf("cache: save index: %w", err)
	}
	return invalidated, nil
}

// dropLocked removes a single entry and persists the index. Callers
// hold the mutex. Used for lazy expiry and index self-healing; failures
// are logged and swallowed because the caller is already returning a
// miss.
func (c *Cache) dropLocked(ix *Index, key string, ent IndexEntry) {
	if err := c.store.delete(ent.Record); err != nil {
		c.logWarn("record delete failed", "key", key, "err", err)
	}
	delete(ix.Entries, key)
	ix.RecomputeTotal()
	if err := c.index.Save(ix); err != nil {
		c.logWarn("index save failed", "key", key, "err", err)
	}
}

func (c *Cache) logWarn(msg string, kv ...any) {
	if c.log == nil {
		return
	}
	fields := make([]observe.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name, _ := kv[i].(string)
		val := kv[i+1]
		if err, ok := val.(error); ok {
			val = err.Error()
		}
		fields = append(fields, observe.Field{Key: name, Value: val})
	}
	c.log.Warn(context.Background(), msg, fields...)
}
