package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	recordDirPerm  = 0o750
	recordFilePerm = 0o600
	recordExt      = ".zst"
)

// record is the on-disk envelope for a single cache entry. Records are
// JSON-serialized and zstd-compressed; the compressed byte count is what
// the index accounts against the size budget.
type record struct {
	Key       string          `json:"key"`
	Source    string          `json:"source"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	TTL       time.Duration   `json:"ttl"`
}

// entryStore reads and writes individual entry records under the cache
// directory. No other component touches these files directly.
type entryStore struct {
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newEntryStore(dir string) (*entryStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("cache: create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("cache: create decoder: %w", err)
	}
	return &entryStore{dir: dir, enc: enc, dec: dec}, nil
}

// encode serializes and compresses a record, returning its relative
// location and the exact bytes that a write would persist. Size is
// measured on the encoded bytes, never estimated.
func (s *entryStore) encode(rec record) (relPath string, data []byte, err error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("cache: encode record: %w", err)
	}
	data = s.enc.EncodeAll(raw, nil)
	relPath = filepath.Join(sanitizeSource(rec.Source), recordID(rec.Key)+recordExt)
	return relPath, data, nil
}

// write persists encoded record bytes at relPath, creating the source
// subdirectory if absent. The write goes through a temp file and rename
// so concurrent readers never observe a partial record.
func (s *entryStore) write(relPath string, data []byte) error {
	path := filepath.Join(s.dir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), recordDirPerm); err != nil {
		return fmt.Errorf("cache: create partition: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "record-*")
	if err != nil {
		return fmt.Errorf("cache: write record: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cache: write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cache: write record: %w", err)
	}
	if err := os.Chmod(tmpPath, recordFilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cache: write record: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cache: write record: %w", err)
	}
	return nil
}

// read loads and decodes the record at relPath. A missing file yields
// ErrNotFound; a present but undecodable file yields ErrCorruptRecord.
func (s *entryStore) read(relPath string) (record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return record{}, ErrNotFound
		}
		return record{}, fmt.Errorf("cache: read record: %w", err)
	}

	raw, err := s.dec.DecodeAll(data, nil)
	if err != nil {
		return record{}, ErrCorruptRecord
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, ErrCorruptRecord
	}
	return rec, nil
}

// delete removes the record at relPath. Absence is not an error.
func (s *entryStore) delete(relPath string) error {
	err := os.Remove(filepath.Join(s.dir, relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: delete record: %w", err)
	}
	return nil
}

// sanitizeSource makes a source label safe for use as a directory name.
func sanitizeSource(source string) string {
	if source == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, source)
}
