package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const indexFileName = "index.json"

// IndexEntry is the bookkeeping record the index keeps per live key.
type IndexEntry struct {
	Record    string        `json:"record"`
	Source    string        `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
	SizeBytes int64         `json:"size_bytes"`
}

// Index is the single source of truth for which keys exist. It maps
// every live key to its record location and metadata and carries the
// derived aggregate size.
type Index struct {
	Entries        map[string]IndexEntry `json:"entries"`
	TotalSizeBytes int64                 `json:"total_size_bytes"`
	LastCleanupAt  time.Time             `json:"last_cleanup_at,omitzero"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Entries: make(map[string]IndexEntry)}
}

// RecomputeTotal sets TotalSizeBytes to the sum of all tracked entries'
// sizes. The total is always derived from the map, never adjusted
// incrementally, so it cannot drift.
func (ix *Index) RecomputeTotal() {
	var total int64
	for _, ent := range ix.Entries {
		total += ent.SizeBytes
	}
	ix.TotalSizeBytes = total
}

// IndexStore loads and persists the index. The facade does not care
// whether an implementation reloads from storage each call or keeps a
// write-through copy, only that Load after Save observes the save.
type IndexStore interface {
	// Load returns the current index. A missing or unparseable index
	// degrades to an empty one; Load never fails.
	Load() *Index

	// Save persists the full index atomically with respect to
	// concurrent readers of the same file.
	Save(ix *Index) error
}

// fileIndexStore persists the index as a single JSON file, rewritten
// whole on every save via a temp file and rename.
type fileIndexStore struct {
	path     string
	filePerm os.FileMode
}

func newFileIndexStore(dir string) *fileIndexStore {
	return &fileIndexStore{
		path:     filepath.Join(dir, indexFileName),
		filePerm: recordFilePerm,
	}
}

func (s *fileIndexStore) Load() *Index {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return NewIndex()
	}
	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return NewIndex()
	}
	if ix.Entries == nil {
		ix.Entries = make(map[string]IndexEntry)
	}
	return &ix
}

func (s *fileIndexStore) Save(ix *Index) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "index-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, s.filePerm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

var _ IndexStore = (*fileIndexStore)(nil)
