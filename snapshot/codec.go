package snapshot

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// encodeMetadata serializes metadata with msgpack; a nil map is stored as
// NULL.
func encodeMetadata(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	data, err := msgpack.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode metadata: %w", err)
	}
	return data, nil
}

// decodeMetadata restores a metadata map. msgpack stores integers in the
// narrowest encoding, so every integer is loaded as int (uint64 when it
// does not fit) and every float as float64, at any nesting depth.
func decodeMetadata(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var meta map[string]any
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("snapshot: decode metadata: %w", err)
	}
	for k, v := range meta {
		meta[k] = normalize(v)
	}
	return meta, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case int64:
		return int(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int(t)
		}
		return t
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	}
	return v
}
