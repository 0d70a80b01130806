// Package record models the in-progress inspection record as an untyped tree
// and provides the structural primitives the rest of the core builds on:
// deep cloning, deterministic path keys, and asset classification.
//
// A record has no fixed shape. Nodes are map[string]any objects, []any
// arrays, and primitive leaves as produced by encoding/json. Asset
// references are plain strings whose scheme or prefix identifies them as
// device-local, inline-encoded, or already durable.
package record

import "strconv"

// Record is the root of an inspection record tree.
type Record map[string]any

// Clone returns a deep copy of the record. Mutating the copy never affects
// the original, which lets the autosave scheduler and the materializer work
// on stable snapshots.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(map[string]any(r)))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case Record:
		return Record(cloneMap(map[string]any(value)))
	case map[string]any:
		return cloneMap(value)
	case []any:
		out := make([]any, len(value))
		for i, e := range value {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// ChildPath extends a path key with a field name.
// The root path is the empty string, so ChildPath("", "photo") == "photo"
// and ChildPath("vehicleInfo", "vin") == "vehicleInfo_vin".
func ChildPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "_" + field
}

// IndexPath extends a path key with an array index, e.g.
// IndexPath("nested", 0) == "nested_0".
func IndexPath(parent string, i int) string {
	return ChildPath(parent, strconv.Itoa(i))
}

// Lookup resolves a dotted field path ("vehicleInfo.mileage") against the
// tree. It returns the value and true when every segment exists.
// Array elements are not addressable through Lookup; it is meant for the
// fixed scalar fields the meaningfulness classifier checks.
func (r Record) Lookup(path string) (any, bool) {
	var node any = map[string]any(r)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		seg := path[start:i]
		start = i + 1

		m, ok := asMap(node)
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Record:
		return map[string]any(m), true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// IsEmptyValue reports whether v counts as "no user input": nil, empty
// string, false, numeric zero, or an empty array/object.
func IsEmptyValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	case float64:
		return value == 0
	case int:
		return value == 0
	case int64:
		return value == 0
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	case Record:
		return len(value) == 0
	default:
		return false
	}
}
