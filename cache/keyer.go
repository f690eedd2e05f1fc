package cache

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
)

// GenerateKey derives a deterministic cache key from a logical operation
// name and its arguments. Argument names are sorted lexicographically
// before serialization, so identical (operation, args) pairs produce
// identical keys regardless of map iteration order. Nil args render the
// same as an empty map: a call with no arguments is one logical call.
//
// Format: <operation>:<canonical JSON of args>
func GenerateKey(operation string, args map[string]any) string {
	var b strings.Builder
	b.WriteString(operation)
	b.WriteByte(':')
	writeCanonical(&b, args)
	return b.String()
}

// ValidateKey checks that a key is usable for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

// recordID maps a logical key to a fixed-length, filesystem-safe
// identifier. The index looks entries up by the logical key itself, so a
// digest collision can only alias file names, never correctness.
func recordID(key string) string {
	return digest.FromString(key).Encoded()
}

// writeCanonical appends a deterministic JSON rendering of v to b.
// Object keys are emitted in sorted order at every nesting level.
func writeCanonical(b *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
	case map[string]any:
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteByte('{')
		for i, name := range names {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, name)
			b.WriteByte(':')
			writeCanonical(b, val[name])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, elem)
		}
		b.WriteByte(']')
	default:
		writeJSON(b, val)
	}
}

// writeJSON appends the standard JSON encoding of a scalar value.
func writeJSON(b *strings.Builder, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable scalars (NaN, channels) should not reach a cache
		// key; render a stable placeholder rather than failing key
		// generation.
		b.WriteString(`"<unencodable>"`)
		return
	}
	b.Write(data)
}
