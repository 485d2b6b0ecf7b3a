package plugins

import (
	"github.com/kolibry/kolibry/pkg/types"
)

// Fragment is the configuration injected underneath the caller's host configuration.
type Fragment struct {
	Define map[string]string

	Alias  map[string]string
	Dedupe []string

	OptimizeInclude []string
	OptimizeExclude []string

	// PostCSSPlugins is empty unless the UnoCSS engine is selected.
	PostCSSPlugins []types.PostCSSPlugin

	FSStrict bool
	FSAllow  []string

	PublicDir string

	// Set only for a globally installed CLI.
	CacheDir string
	Root     string
}

// InlineConfig converts the fragment into a host configuration tree.
func (f *Fragment) InlineConfig() types.InlineConfig {
	css := map[string]any{}
	if len(f.PostCSSPlugins) > 0 {
		plugins := make([]any, len(f.PostCSSPlugins))
		for i, p := range f.PostCSSPlugins {
			plugins[i] = p
		}
		css["postcss"] = map[string]any{"plugins": plugins}
	}

	cfg := types.InlineConfig{
		"define": stringMap(f.Define),
		"resolve": map[string]any{
			"alias":  stringMap(f.Alias),
			"dedupe": list(f.Dedupe),
		},
		"optimizeDeps": map[string]any{
			"include": list(f.OptimizeInclude),
			"exclude": list(f.OptimizeExclude),
		},
		"css": css,
		"server": map[string]any{
			"fs": map[string]any{
				"strict": f.FSStrict,
				"allow":  list(f.FSAllow),
			},
		},
		"publicDir": f.PublicDir,
	}

	if f.CacheDir != "" {
		cfg["cacheDir"] = f.CacheDir
	}
	if f.Root != "" {
		cfg["root"] = f.Root
	}
	return cfg
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func list(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
