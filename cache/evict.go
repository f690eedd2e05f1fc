package cache

import "sort"

// evictionFloorDivisor sets the minimum block freed per eviction pass to
// a tenth of the size budget, so eviction amortizes instead of firing on
// every write once the cache sits at capacity.
const evictionFloorDivisor = 10

// reclaim frees room in the index for an incoming write of the given
// size. If the write already fits within the budget it is a no-op.
// Otherwise entries are dropped oldest-first (by CreatedAt; there is no
// access-time tracking) until at least max(incoming, budget/10) bytes
// are freed or nothing is left. Running out of evictable entries is not
// an error: an entry larger than the whole budget still gets written,
// the cache simply frees everything it can first.
//
// Backing records are deleted best-effort; the index mutation is what
// counts. Returns the number of evicted entries.
func (c *Cache) reclaim(ix *Index, incoming int64) int {
	budget := c.cfg.MaxSizeBytes
	if ix.TotalSizeBytes+incoming <= budget {
		return 0
	}

	target := incoming
	if floor := budget / evictionFloorDivisor; floor > target {
		target = floor
	}

	type aged struct {
		key string
		ent IndexEntry
	}
	oldest := make([]aged, 0, len(ix.Entries))
	for key, ent := range ix.Entries {
		oldest = append(oldest, aged{key: key, ent: ent})
	}
	sort.Slice(oldest, func(i, j int) bool {
		if oldest[i].ent.CreatedAt.Equal(oldest[j].ent.CreatedAt) {
			return oldest[i].key < oldest[j].key
		}
		return oldest[i].ent.CreatedAt.Before(oldest[j].ent.CreatedAt)
	})

	var freed int64
	evicted := 0
	for _, cand := range oldest {
		if freed >= target {
			break
		}
		if err := c.store.delete(cand.ent.Record); err != nil {
			c.logWarn("evict record delete failed", "key", cand.key, "err", err)
		}
		delete(ix.Entries, cand.key)
		freed += cand.ent.SizeBytes
		evicted++
	}

	if evicted > 0 {
		ix.RecomputeTotal()
	}
	return evicted
}
