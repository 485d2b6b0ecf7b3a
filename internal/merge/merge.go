// Package merge layers one configuration tree on top of another.
//
// Policy, applied recursively:
//   - a nil override is ignored
//   - two maps are merged key by key
//   - if either side is a list, the lists are concatenated (defaults first)
//     and de-duplicated; the first occurrence keeps its position
//   - otherwise the override value wins
//
// Neither input is modified and the result shares no maps or slices with them.
package merge

import (
	"reflect"
)

// Merge returns defaults overlaid with overrides.
func Merge(defaults, overrides map[string]any) map[string]any {
	out := cloneMap(defaults)
	if out == nil {
		out = make(map[string]any, len(overrides))
	}
	for key, value := range overrides {
		if value == nil {
			continue
		}
		existing, ok := out[key]
		if !ok || existing == nil {
			out[key] = Clone(value)
			continue
		}
		out[key] = mergeValue(existing, value)
	}
	return out
}

func mergeValue(existing, value any) any {
	existingMap, existingIsMap := toMap(existing)
	valueMap, valueIsMap := toMap(value)
	if existingIsMap && valueIsMap {
		return Merge(existingMap, valueMap)
	}

	existingList, existingIsList := toList(existing)
	valueList, valueIsList := toList(value)
	if existingIsList || valueIsList {
		if !existingIsList {
			existingList = []any{existing}
		}
		if !valueIsList {
			valueList = []any{value}
		}
		return Uniq(append(append([]any{}, existingList...), valueList...))
	}

	return Clone(value)
}

// Uniq removes repeated entries, keeping the first occurrence of each.
// Comparable values are compared with ==, others with reflect.DeepEqual.
func Uniq(items []any) []any {
	out := make([]any, 0, len(items))
	seen := make(map[any]struct{}, len(items))
	for _, item := range items {
		if item != nil && reflect.ValueOf(item).Comparable() {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, Clone(item))
			continue
		}
		if containsDeep(out, item) {
			continue
		}
		out = append(out, Clone(item))
	}
	return out
}

func containsDeep(list []any, item any) bool {
	for _, existing := range list {
		if reflect.DeepEqual(existing, item) {
			return true
		}
	}
	return false
}

// Clone deep-copies maps and lists. Other values are returned as is.
func Clone(v any) any {
	if m, ok := toMap(v); ok {
		return cloneMap(m)
	}
	if l, ok := toList(v); ok {
		out := make([]any, len(l))
		for i, item := range l {
			out[i] = Clone(item)
		}
		return out
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// toMap accepts any map keyed by strings, including named map types.
func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// toList accepts any slice or array except byte slices.
func toList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
