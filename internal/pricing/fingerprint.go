package pricing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fingerprint hashes a line's option bag into a stable identity. Two bags with
// the same keys and values always hash the same regardless of key order, so
// the hash can key item diffs across edits. An empty bag has no fingerprint.
func Fingerprint(options map[string]any) *string {
	if len(options) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(canonicalize(options)); err != nil {
		// Canonicalization reduces everything to strings, maps, and
		// slices, all of which encode cleanly.
		panic(fmt.Sprintf("fingerprint encode: %v", err))
	}

	sum := sha256.Sum256(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	out := hex.EncodeToString(sum[:])
	return &out
}

// canonicalize flattens every scalar to a deterministic string form so that
// JSON-decoded float64s, ints, and bools hash identically across runs. Map key
// ordering is handled by the encoder, which sorts keys.
func canonicalize(v any) any {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return canonicalNumber(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = canonicalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = canonicalize(item)
		}
		return out
	default:
		return fmt.Sprintf("%v", val)
	}
}

func canonicalNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := n.Float64()
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
