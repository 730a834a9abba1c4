package matching

// typeName classifies a decoded JSON value into the six primitive categories
// the "type" rule compares, mirroring how encoding/json decodes into `any`.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64, int, int64:
		return "number"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}

// toFloat64 attempts to view v as a JSON number regardless of which concrete
// Go numeric type produced it (json.Unmarshal always yields float64, but
// matchers authored in Go source may use int literals).
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// valuesEqual compares two decoded JSON scalars for equality, coercing
// numeric types so a matcher authored with an `int` literal compares equal
// to the `float64` the actual body decoded to.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	if en, eok := toFloat64(expected); eok {
		if an, aok := toFloat64(actual); aok {
			return en == an
		}
		return false
	}
	if es, eok := expected.(string); eok {
		as, aok := actual.(string)
		return aok && es == as
	}
	if eb, eok := expected.(bool); eok {
		ab, aok := actual.(bool)
		return aok && eb == ab
	}
	return false
}
