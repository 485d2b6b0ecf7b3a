package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDedupeUnion(t *testing.T) {
	injected := map[string]any{"resolve": map[string]any{"dedupe": []any{"vue"}}}
	user := map[string]any{"resolve": map[string]any{"dedupe": []any{"vue", "extra"}}}

	got := Merge(injected, user)

	assert.Equal(t, []any{"vue", "extra"}, got["resolve"].(map[string]any)["dedupe"])
}

func TestMergeScalarsCallerWins(t *testing.T) {
	injected := map[string]any{
		"publicDir": "/deck/public",
		"server":    map[string]any{"fs": map[string]any{"strict": true}},
	}
	user := map[string]any{
		"publicDir": "/deck/static",
		"server":    map[string]any{"fs": map[string]any{"strict": false}, "port": float64(3030)},
	}

	got := Merge(injected, user)

	assert.Equal(t, "/deck/static", got["publicDir"])
	server := got["server"].(map[string]any)
	assert.Equal(t, false, server["fs"].(map[string]any)["strict"])
	assert.Equal(t, float64(3030), server["port"])
}

func TestMergeKeepsKeysFromBothSides(t *testing.T) {
	injected := map[string]any{
		"resolve": map[string]any{"alias": map[string]any{"@kolibry/client/": "/@fs/client/"}},
	}
	user := map[string]any{
		"resolve": map[string]any{"alias": map[string]any{"~": "/deck/src"}},
		"base":    "/slides/",
	}

	got := Merge(injected, user)

	alias := got["resolve"].(map[string]any)["alias"].(map[string]any)
	assert.Equal(t, "/@fs/client/", alias["@kolibry/client/"])
	assert.Equal(t, "/deck/src", alias["~"])
	assert.Equal(t, "/slides/", got["base"])
}

func TestMergeListOrderAndTypes(t *testing.T) {
	tests := []struct {
		name      string
		defaults  any
		overrides any
		want      []any
	}{
		{"typed string slices", []string{"a", "b"}, []string{"b", "c"}, []any{"a", "b", "c"}},
		{"scalar joins list", "a", []any{"b", "a"}, []any{"a", "b"}},
		{"list absorbs scalar", []any{"a"}, "b", []any{"a", "b"}},
		{"duplicates inside one side", []any{"x", "x"}, []any{}, []any{"x"}},
		{"deep equal maps", []any{map[string]any{"k": 1}}, []any{map[string]any{"k": 1}}, []any{map[string]any{"k": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(map[string]any{"v": tt.defaults}, map[string]any{"v": tt.overrides})
			assert.Equal(t, tt.want, got["v"])
		})
	}
}

func TestMergeIgnoresNilOverrides(t *testing.T) {
	got := Merge(map[string]any{"root": "/cli"}, map[string]any{"root": nil, "mode": "dev"})

	assert.Equal(t, "/cli", got["root"])
	assert.Equal(t, "dev", got["mode"])
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	injected := map[string]any{
		"optimizeDeps": map[string]any{"include": []any{"a"}},
	}
	user := map[string]any{
		"optimizeDeps": map[string]any{"include": []any{"b"}},
		"define":       map[string]any{"X": "1"},
	}

	got := Merge(injected, user)
	require.Equal(t, []any{"a", "b"}, got["optimizeDeps"].(map[string]any)["include"])

	assert.Equal(t, []any{"a"}, injected["optimizeDeps"].(map[string]any)["include"])
	assert.Equal(t, []any{"b"}, user["optimizeDeps"].(map[string]any)["include"])
	assert.NotContains(t, injected, "define")

	// the result owns its maps
	got["define"].(map[string]any)["X"] = "2"
	assert.Equal(t, "1", user["define"].(map[string]any)["X"])
}

func TestMergeNilDefaults(t *testing.T) {
	got := Merge(nil, map[string]any{"a": []string{"x"}})
	assert.Equal(t, []any{"x"}, got["a"])
}

func TestUniqNonComparable(t *testing.T) {
	items := []any{[]any{"a"}, "b", []any{"a"}, "b", nil}
	assert.Equal(t, []any{[]any{"a"}, "b", nil}, Uniq(items))
}

type hostPlugin struct {
	Name string
	Opts any
}

func TestUniqStructHoldingSlice(t *testing.T) {
	items := []any{
		hostPlugin{"a", []any{1}},
		hostPlugin{"b", []any{2}},
		hostPlugin{"a", []any{1}},
		hostPlugin{"c", "plain"},
		hostPlugin{"c", "plain"},
	}
	assert.Equal(t, []any{
		hostPlugin{"a", []any{1}},
		hostPlugin{"b", []any{2}},
		hostPlugin{"c", "plain"},
	}, Uniq(items))

	got := Merge(
		map[string]any{"plugins": []any{hostPlugin{"a", []any{1}}}},
		map[string]any{"plugins": []any{hostPlugin{"b", []any{2}}}},
	)
	assert.Equal(t, []any{hostPlugin{"a", []any{1}}, hostPlugin{"b", []any{2}}}, got["plugins"])
}
