package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T, cfg Config) (*Cache, *fakeClock) {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	clock := newFakeClock()
	c, err := New(cfg, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, clock
}

func getDecoded(t *testing.T, c *Cache, key string) (any, bool) {
	t.Helper()
	raw, ok := c.Get(context.Background(), key)
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("cached value undecodable: %v", err)
	}
	return v, true
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	value := map[string]any{
		"celex": "32016R0679",
		"title": "General Data Protection Regulation",
		"score": float64(42),
		"tags":  []any{"eu", "privacy"},
	}
	if err := c.Set(ctx, "doc:gdpr", value, time.Hour, "eurlex"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := getDecoded(t, c, "doc:gdpr")
	if !ok {
		t.Fatal("Get after Set should hit")
	}
	if diff := cmp.Diff(value, got); diff != "" {
		t.Errorf("round-tripped value mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_TTLBoundary(t *testing.T) {
	c, clock := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	if err := c.Set(ctx, "short", "value", 100*time.Millisecond, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := c.Get(ctx, "short"); !ok {
		t.Fatal("Get immediately after Set should hit")
	}

	clock.Advance(101 * time.Millisecond)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Fatal("Get past TTL should miss")
	}

	// Lazy expiry must also remove the entry from the books.
	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 0 {
		t.Errorf("expired entry still tracked: %d entries", stats.TotalEntries)
	}
}

func TestCache_NonExpiryWithinTTL(t *testing.T) {
	c, clock := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	if err := c.Set(ctx, "long", "value", time.Minute, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clock.Advance(50 * time.Millisecond)

	got, ok := getDecoded(t, c, "long")
	if !ok {
		t.Fatal("Get within TTL should hit")
	}
	if got != "value" {
		t.Errorf("Get = %v, want %q", got, "value")
	}
}

func TestCache_OverwriteReplacesEntry(t *testing.T) {
	c, _ := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]any{"v": 1}, time.Hour, "s1"); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if err := c.Set(ctx, "k", map[string]any{"v": 2}, time.Hour, "s1"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	got, ok := getDecoded(t, c, "k")
	if !ok {
		t.Fatal("Get after overwrite should hit")
	}
	if diff := cmp.Diff(map[string]any{"v": float64(2)}, got); diff != "" {
		t.Errorf("overwrite did not replace value (-want +got):\n%s", diff)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", stats.TotalEntries)
	}
	if stats.BySource["s1"].Count != 1 {
		t.Errorf("BySource count = %d, want 1", stats.BySource["s1"].Count)
	}
}

func TestCache_RemoveIdempotent(t *testing.T) {
	c, _ := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Hour, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	before, _ := c.Stats(ctx)

	if err := c.Remove(ctx, "absent"); err != nil {
		t.Errorf("Remove of absent key errored: %v", err)
	}
	after, _ := c.Stats(ctx)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("Remove of absent key changed stats (-before +after):\n%s", diff)
	}

	if err := c.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get after Remove should miss")
	}
	if err := c.Remove(ctx, "k"); err != nil {
		t.Errorf("second Remove errored: %v", err)
	}
}

func TestCache_ScopedClear(t *testing.T) {
	c, _ := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	for key, source := range map[string]string{"k1": "s1", "k2": "s1", "k3": "s2"} {
		if err := c.Set(ctx, key, "v-"+key, time.Hour, source); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	cleared, err := c.Clear(ctx, "s1")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared != 2 {
		t.Errorf("Clear cleared = %d, want 2", cleared)
	}
	if _, ok := c.Get(ctx, "k1"); ok {
		t.Error("k1 should be gone")
	}
	if _, ok := c.Get(ctx, "k2"); ok {
		t.Error("k2 should be gone")
	}
	if _, ok := c.Get(ctx, "k3"); !ok {
		t.Error("k3 should survive a scoped clear")
	}

	stats, _ := c.Stats(ctx)
	if _, tracked := stats.BySource["s1"]; tracked {
		t.Error("s1 partition should be empty after scoped clear")
	}
}

func TestCache_ClearAll(t *testing.T) {
	c, _ := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(ctx, key, i, time.Hour, "s1"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	cleared, err := c.Clear(ctx, "")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared != 5 {
		t.Errorf("cleared = %d, want 5", cleared)
	}
	stats, _ := c.Stats(ctx)
	if stats.TotalEntries != 0 || stats.TotalSizeBytes != 0 {
		t.Errorf("stats after full clear = %d entries, %d bytes", stats.TotalEntries, stats.TotalSizeBytes)
	}
}

func TestCache_InvalidateExpired(t *testing.T) {
	c, clock := newTestCache(t, Config{Enabled: true})
	ctx := context.Background()

	if err := c.Set(ctx, "stale", "v", 50*time.Millisecond, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clock.Advance(100 * time.Millisecond)
	if err := c.Set(ctx, "fresh", "v", time.Hour, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	invalidated, err := c.InvalidateExpired(ctx)
	if err != nil {
		t.Fatalf("InvalidateExpired failed: %v", err)
	}
	if invalidated != 1 {
		t.Errorf("invalidated = %d, want 1", invalidated)
	}
	if _, ok := c.Get(ctx, "stale"); ok {
		t.Error("stale entry should be gone")
	}
	if _, ok := c.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry should survive the sweep")
	}

	stats, _ := c.Stats(ctx)
	if stats.LastCleanupAt.IsZero() {
		t.Error("sweep should record LastCleanupAt")
	}

	// Nothing left to invalidate: the index must not be rewritten.
	invalidated, err = c.InvalidateExpired(ctx)
	if err != nil {
		t.Fatalf("second InvalidateExpired failed: %v", err)
	}
	if invalidated != 0 {
		t.Errorf("second sweep invalidated = %d, want 0", invalidated)
	}
}

func TestCache_EvictionUnderPressure(t *testing.T) {
	const budget = 8 << 10
	c, clock := newTestCache(t, Config{Enabled: true, MaxSizeBytes: budget})
	ctx := context.Background()

	// Incompressible-ish payloads so each record carries real weight.
	payload := func(i int) string {
		var b strings.Builder
		for j := 0; j < 64; j++ {
			fmt.Fprintf(&b, "%08x", i*7919+j*104729)
		}
		return b.String()
	}

	const n = 40
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("entry-%03d", i)
		if err := c.Set(ctx, key, payload(i), time.Hour, "s1"); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
		clock.Advance(time.Second)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSizeBytes > budget {
		t.Errorf("TotalSizeBytes = %d, want <= %d", stats.TotalSizeBytes, budget)
	}
	if stats.TotalEntries == 0 || stats.TotalEntries == n {
		t.Errorf("TotalEntries = %d, want some but not all of %d", stats.TotalEntries, n)
	}

	// Oldest gone, newest present.
	if _, ok := c.Get(ctx, "entry-000"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get(ctx, fmt.Sprintf("entry-%03d", n-1)); !ok {
		t.Error("newest entry should survive eviction")
	}
}

func TestCache_OversizeEntryStillWritten(t *testing.T) {
	c, _ := newTestCache(t, Config{Enabled: true, MaxSizeBytes: 64})
	ctx := context.Background()

	big := strings.Repeat("incompressible? not quite, but large. ", 200)
	if err := c.Set(ctx, "big", big, time.Hour, "s1"); err != nil {
		t.Fatalf("Set of over-budget entry should not error: %v", err)
	}
	got, ok := getDecoded(t, c, "big")
	if !ok {
		t.Fatal("over-budget entry should still be retrievable")
	}
	if got != big {
		t.Error("over-budget entry came back different")
	}
}

func TestCache_DanglingRecordSelfHeal(t *testing.T) {
	dir := t.TempDir()
	c, _ := newTestCache(t, Config{Enabled: true, Dir: dir})
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Hour, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Remove the backing record out-of-band.
	removed := 0
	matches, err := filepath.Glob(filepath.Join(dir, "s1", "*"+recordExt))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove record: %v", err)
		}
		removed++
	}
	if removed != 1 {
		t.Fatalf("expected exactly one record file, removed %d", removed)
	}

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get with a dangling record should miss")
	}
	stats, _ := c.Stats(ctx)
	if stats.TotalEntries != 0 {
		t.Errorf("index should be self-healed, still tracks %d entries", stats.TotalEntries)
	}
}

func TestCache_CorruptRecordSelfHeal(t *testing.T) {
	dir := t.TempDir()
	c, _ := newTestCache(t, Config{Enabled: true, Dir: dir})
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Hour, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "s1", "*"+recordExt))
	if len(matches) != 1 {
		t.Fatalf("expected one record file, found %d", len(matches))
	}
	if err := os.WriteFile(matches[0], []byte("not a record"), 0o600); err != nil {
		t.Fatalf("corrupt record: %v", err)
	}

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get of a corrupt record should miss")
	}
	stats, _ := c.Stats(ctx)
	if stats.TotalEntries != 0 {
		t.Errorf("corrupt entry should be pruned, still tracks %d entries", stats.TotalEntries)
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New disabled failed: %v", err)
	}
	ctx := context.Background()

	if c.Enabled() {
		t.Error("Enabled() should be false")
	}
	if err := c.Set(ctx, "k", "v", time.Hour, "s1"); err != nil {
		t.Errorf("disabled Set should be a no-op, got %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("disabled Get should miss")
	}
	if cleared, err := c.Clear(ctx, ""); err != nil || cleared != 0 {
		t.Errorf("disabled Clear = (%d, %v), want (0, nil)", cleared, err)
	}
	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Enabled {
		t.Error("stats should report disabled")
	}
}

func TestCache_DefaultTTLApplied(t *testing.T) {
	c, clock := newTestCache(t, Config{Enabled: true, TTLDefault: time.Minute})
	ctx := context.Background()

	// Zero TTL resolves to the configured default.
	if err := c.Set(ctx, "k", "v", 0, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clock.Advance(59 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Error("entry within default TTL should hit")
	}
	clock.Advance(2 * time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry past default TTL should miss")
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, _ := newTestCache(t, Config{Enabled: true, Dir: dir})
	if err := first.Set(ctx, "persisted", map[string]any{"n": 7}, time.Hour, "s1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second, _ := newTestCache(t, Config{Enabled: true, Dir: dir})
	got, ok := getDecoded(t, second, "persisted")
	if !ok {
		t.Fatal("entry should survive a process restart")
	}
	if diff := cmp.Diff(map[string]any{"n": float64(7)}, got); diff != "" {
		t.Errorf("persisted value mismatch (-want +got):\n%s", diff)
	}
}

// TestCache_SharedDirectoryBestEffort exercises two cache handles over
// one directory, the multi-process deployment mode. The index is
// read-modify-write without a lock manager, so a concurrent writer may
// lose a structural update; the guarantee under test is weaker and
// deliberate: no operation fails, and whatever the index ends up
// tracking is internally consistent and retrievable.
func TestCache_SharedDirectoryBestEffort(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a, _ := newTestCache(t, Config{Enabled: true, Dir: dir})
	b, _ := newTestCache(t, Config{Enabled: true, Dir: dir})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := a.Set(ctx, fmt.Sprintf("a-%02d", i), i, time.Hour, "sa"); err != nil {
				t.Errorf("writer a failed: %v", err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if err := b.Set(ctx, fmt.Sprintf("b-%02d", i), i, time.Hour, "sb"); err != nil {
				t.Errorf("writer b failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// Whatever survived the race must be readable and--via the derived
	// total--consistent with itself.
	stats, err := a.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries == 0 {
		t.Fatal("at least some writes must survive")
	}
	var sum int64
	for _, src := range stats.BySource {
		sum += src.SizeBytes
	}
	if sum != stats.TotalSizeBytes {
		t.Errorf("per-source sizes sum to %d, total is %d", sum, stats.TotalSizeBytes)
	}
	for i := 0; i < 20; i++ {
		for _, key := range []string{fmt.Sprintf("a-%02d", i), fmt.Sprintf("b-%02d", i)} {
			if raw, ok := a.Get(ctx, key); ok && len(raw) == 0 {
				t.Errorf("surviving key %s returned an empty value", key)
			}
		}
	}
}
