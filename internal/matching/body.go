package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gopact/gopact/internal/rules"
)

// DecodeBody turns a raw request/response body plus its declared Content-Type
// into the `any` shape the Rule Engine compares: JSON bodies decode to
// map[string]any/[]any/scalars, form-encoded bodies decode to a mapping of
// ordered value lists, and everything else is treated as an opaque string
// that only matches by byte equality.
func DecodeBody(contentType string, raw []byte) (any, error) {
	mediaType := mediaTypeOf(contentType)
	switch {
	case len(raw) == 0:
		return nil, nil
	case strings.HasPrefix(mediaType, "application/json") || strings.HasSuffix(mediaType, "+json"):
		var v any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("matching: decoding JSON body: %w", err)
		}
		return normalizeNumbers(v), nil
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, fmt.Errorf("matching: decoding form body: %w", err)
		}
		out := make(map[string]any, len(values))
		for k, vs := range values {
			out[k] = toAnySlice(vs)
		}
		return out, nil
	default:
		return string(raw), nil
	}
}

func mediaTypeOf(contentType string) string {
	mt := contentType
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// normalizeNumbers converts json.Number (produced by UseNumber, which keeps
// integers from losing precision in round-trips) into float64 so the engine's
// numeric comparisons in valuesEqual/toFloat64 see a single consistent type.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeNumbers(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeNumbers(val)
		}
		return out
	default:
		return v
	}
}

// CompareOpaqueBody is used when the content type isn't JSON or form-encoded:
// Pact only permits byte-for-byte equality for such bodies, regardless of
// any matcher — matchers only operate over structured JSON.
func CompareOpaqueBody(expected, actual []byte) []Mismatch {
	if bytes.Equal(expected, actual) {
		return nil
	}
	return []Mismatch{mismatch(rules.RootFor(rules.SectionBody), "opaque body mismatch", string(expected), string(actual))}
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
