// Package merge implements the recursive tree merge used by the
// configuration resolver.
//
// Merge rules: nested maps merge key-wise, sequences replace wholly,
// scalars replace. Inputs are never mutated; the result is a fresh tree.
package merge

// Absent marks an override key as "no override supplied". A key set to
// Absent is skipped and the base value is kept. This is distinct from a
// key set to nil or to an empty collection, both of which do override.
var Absent = absent{}

type absent struct{}

// Maps merges override into base and returns a new tree.
//
// Keys only in base are kept. Keys in both merge recursively when both
// values are maps; otherwise the override value replaces the base value,
// including when the override value is a slice (no element-wise
// combination) or nil. Neither input is modified.
func Maps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		result[k] = copyValue(v)
	}
	for k, ov := range override {
		if _, skip := ov.(absent); skip {
			continue
		}
		bv, exists := result[k]
		if exists {
			bm, baseIsMap := bv.(map[string]any)
			om, overrideIsMap := ov.(map[string]any)
			if baseIsMap && overrideIsMap {
				result[k] = Maps(bm, om)
				continue
			}
		}
		result[k] = copyValue(ov)
	}
	return result
}

// Copy returns a deep copy of tree. Nested maps and slices are copied;
// scalar values are shared (they are immutable).
func Copy(tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	result := make(map[string]any, len(tree))
	for k, v := range tree {
		result[k] = copyValue(v)
	}
	return result
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Copy(val)
	case []any:
		copied := make([]any, len(val))
		for i, item := range val {
			copied[i] = copyValue(item)
		}
		return copied
	default:
		return v
	}
}
