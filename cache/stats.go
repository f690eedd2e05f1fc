package cache

import (
	"context"
	"time"
)

// SourceStats aggregates the entries of one source partition.
type SourceStats struct {
	Count     int   `json:"count"`
	SizeBytes int64 `json:"size_bytes"`
}

// Stats is a read-only snapshot of the cache.
type Stats struct {
	Enabled        bool                   `json:"enabled"`
	TotalEntries   int                    `json:"total_entries"`
	TotalSizeBytes int64                  `json:"total_size_bytes"`
	MaxSizeBytes   int64                  `json:"max_size_bytes"`
	TTLDefault     time.Duration          `json:"ttl_default"`
	BySource       map[string]SourceStats `json:"by_source"`
	LastCleanupAt  time.Time              `json:"last_cleanup_at,omitzero"`
}

// Stats aggregates over the current index. It never mutates state and
// never triggers eviction or expiry.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		Enabled:      c.Enabled(),
		MaxSizeBytes: c.cfg.MaxSizeBytes,
		TTLDefault:   c.cfg.TTLDefault,
		BySource:     make(map[string]SourceStats),
	}
	if !c.Enabled() {
		return st, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ix := c.index.Load()
	st.TotalEntries = len(ix.Entries)
	st.TotalSizeBytes = ix.TotalSizeBytes
	st.LastCleanupAt = ix.LastCleanupAt
	for _, ent := range ix.Entries {
		agg := st.BySource[ent.Source]
		agg.Count++
		agg.SizeBytes += ent.SizeBytes
		st.BySource[ent.Source] = agg
	}
	return st, nil
}
