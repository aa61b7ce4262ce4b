package store

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Document is an in-memory configuration tree.
type Document map[string]any

// DeepMerge returns a new Document holding the recursive union of a and b.
// Where both hold a map under the same key the maps are merged; any other
// value in b replaces the value in a. Neither input is modified.
func DeepMerge(a, b Document) Document {
	return Document(mergeMaps(a, b))
}

func mergeMaps(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = Clone(v)
	}
	for k, v := range b {
		bm, bIsMap := asMap(v)
		am, aIsMap := asMap(out[k])
		if bIsMap && aIsMap {
			out[k] = mergeMaps(am, bm)
			continue
		}
		out[k] = Clone(v)
	}
	return out
}

// Section returns the map stored under key, whatever map type the decoder
// produced. The second result is false when key is absent or not a map.
func Section(doc map[string]any, key string) (map[string]any, bool) {
	if doc == nil {
		return nil, false
	}
	v, ok := doc[key]
	if !ok {
		return nil, false
	}
	m, ok := asMap(v)
	if ok {
		doc[key] = m
	}
	return m, ok
}

// EnsureSection returns the map stored under key, creating an empty one
// (and replacing any non-map value) when needed.
func EnsureSection(doc map[string]any, key string) map[string]any {
	if m, ok := Section(doc, key); ok {
		return m
	}
	m := map[string]any{}
	doc[key] = m
	return m
}

// Keys returns the keys of m in sorted order. It never returns nil.
func Keys(m map[string]any) []string {
	keys := slices.Sorted(maps.Keys(m))
	if keys == nil {
		return []string{}
	}
	return keys
}

// Strings converts a decoded list into a []string, skipping non-string
// elements. It accepts []any and []string.
func Strings(v any) []string {
	switch s := v.(type) {
	case []string:
		return slices.Clone(s)
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Equal reports whether a and b are structurally equal once both are
// normalized, so []string and []any or int and int64 compare equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// Normalize converts decoder-specific shapes into map[string]any, []any,
// int64 and float64 trees.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case Document:
		return normalizeMap(t)
	case map[any]any:
		m, _ := asMap(t)
		return m
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeMap(e)
		}
		return out
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case float32:
		return float64(t)
	}
	return v
}

// Clone returns a deep copy of a normalized value.
func Clone(v any) any {
	return Normalize(v)
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Document:
		return map[string]any(t), true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out, true
	}
	return nil, false
}
