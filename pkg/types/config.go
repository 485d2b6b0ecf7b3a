package types

import (
	"encoding/json"
	"strings"
)

// InlineConfig is a host server/build configuration tree.
// Keys follow the host's configuration schema ("resolve", "server", ...).
// Values are scalars, []any, map[string]any, or opaque host values such as plugins.
type InlineConfig map[string]any

// Lookup walks a dotted key path ("server.fs.allow") and returns the value found.
func (c InlineConfig) Lookup(path string) (any, bool) {
	var cur any = map[string]any(c)
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path, or "" when absent or not a string.
func (c InlineConfig) String(path string) string {
	v, _ := c.Lookup(path)
	s, _ := v.(string)
	return s
}

// Bool returns the boolean at path, or def when absent or not a boolean.
func (c InlineConfig) Bool(path string, def bool) bool {
	v, ok := c.Lookup(path)
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// Int returns the integer at path. JSON numbers decode as float64 and are accepted.
func (c InlineConfig) Int(path string) (int, bool) {
	v, ok := c.Lookup(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// Strings returns the string entries of the list at path.
func (c InlineConfig) Strings(path string) []string {
	v, _ := c.Lookup(path)
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case InlineConfig:
		return m, true
	}
	return nil, false
}

// PostCSSPlugin is an opaque CSS post-processing plugin handed to the host.
type PostCSSPlugin interface {
	PluginName() string
}
