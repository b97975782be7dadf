package agents

import "encoding/json"

// Typed accessors for the loosely-typed metadata maps threaded between
// phases. Missing keys and wrong types yield zero values, matching the
// "absent means zero" rule the scoring functions rely on.

// Num reads a numeric value from a metadata map.
func Num(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

// Str reads a string value, falling back when absent or mistyped.
func Str(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

// Bool reads a boolean value, defaulting to false.
func Bool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// Strings reads a string slice, tolerating the []any shape produced by JSON
// decoding.
func Strings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
