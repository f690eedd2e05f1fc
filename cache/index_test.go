package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileIndexStore_LoadMissing(t *testing.T) {
	store := newFileIndexStore(t.TempDir())
	ix := store.Load()
	if ix == nil || ix.Entries == nil {
		t.Fatal("Load of a missing index must return a usable empty index")
	}
	if len(ix.Entries) != 0 || ix.TotalSizeBytes != 0 {
		t.Errorf("fresh index not empty: %d entries, %d bytes", len(ix.Entries), ix.TotalSizeBytes)
	}
}

func TestFileIndexStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, indexFileName), []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write corrupt index: %v", err)
	}
	ix := newFileIndexStore(dir).Load()
	if len(ix.Entries) != 0 {
		t.Error("corrupt index must degrade to empty, not fail")
	}
}

func TestFileIndexStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := newFileIndexStore(dir)

	ix := NewIndex()
	ix.Entries["k1"] = IndexEntry{
		Record:    "s1/abc.zst",
		Source:    "s1",
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		TTL:       time.Hour,
		SizeBytes: 123,
	}
	ix.RecomputeTotal()
	if err := store.Save(ix); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := store.Load()
	ent, ok := loaded.Entries["k1"]
	if !ok {
		t.Fatal("saved entry missing after Load")
	}
	if ent.Record != "s1/abc.zst" || ent.TTL != time.Hour || ent.SizeBytes != 123 {
		t.Errorf("loaded entry mismatch: %+v", ent)
	}
	if loaded.TotalSizeBytes != 123 {
		t.Errorf("TotalSizeBytes = %d, want 123", loaded.TotalSizeBytes)
	}
}

func TestFileIndexStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := newFileIndexStore(dir)
	if err := store.Save(NewIndex()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != indexFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory should contain only %s, got %v", indexFileName, names)
	}
}

func TestIndex_RecomputeTotal(t *testing.T) {
	ix := NewIndex()
	ix.Entries["a"] = IndexEntry{SizeBytes: 10}
	ix.Entries["b"] = IndexEntry{SizeBytes: 32}
	ix.TotalSizeBytes = 9999 // drifted on purpose
	ix.RecomputeTotal()
	if ix.TotalSizeBytes != 42 {
		t.Errorf("TotalSizeBytes = %d, want 42", ix.TotalSizeBytes)
	}

	delete(ix.Entries, "a")
	ix.RecomputeTotal()
	if ix.TotalSizeBytes != 32 {
		t.Errorf("TotalSizeBytes after delete = %d, want 32", ix.TotalSizeBytes)
	}
}
