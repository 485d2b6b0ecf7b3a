// Package plugins assembles the host configuration for a deck: compile-time
// defines, module aliases, dependency pre-bundling lists, the filesystem
// allow-list, and the HTML fallback used for client-side routing.
package plugins

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/kolibry/kolibry/internal/logging"
	"github.com/kolibry/kolibry/internal/merge"
	"github.com/kolibry/kolibry/internal/resolve"
	"github.com/kolibry/kolibry/pkg/types"
)

// Name identifies the config plugin to the host.
const Name = "kolibry:config"

const (
	clientPackage = "@kolibry/client"
	uiFramework   = "vue"
	uiBrowserESM  = "vue/dist/vue.esm-browser.js"
	mathAssets    = "katex"
)

// Exclude lists packages kept out of dependency pre-bundling: they are
// already pre-built, virtual, or must share a single instance with the client.
var Exclude = []string{
	"@kolibry/shared",
	"@kolibry/types",
	"@kolibry/client",
	"@kolibry/client/constants",
	"@kolibry/client/logic/dark",
	"@vueuse/core",
	"@vueuse/shared",
	"@unocss/reset",
	"unocss",
	"mermaid",
	"vite-plugin-windicss",
	"vue-demi",
	"vue",
}

// DeepImports are submodules the host's dependency scanner cannot discover.
var DeepImports = []string{
	"codemirror/mode/javascript/javascript",
	"codemirror/mode/css/css",
	"codemirror/mode/markdown/markdown",
	"codemirror/mode/xml/xml",
	"codemirror/mode/htmlmixed/htmlmixed",
	"codemirror/addon/display/placeholder",
	"prettier/plugins/babel",
	"prettier/plugins/html",
	"prettier/plugins/typescript",
	"mermaid/dist/mermaid.esm.min.mjs",
	"mermaid/dist/mermaid.esm.mjs",
	"vite-plugin-vue-server-ref/client",
}

// Resolver is the subset of *resolve.Resolver the plugin depends on.
type Resolver interface {
	RequireImportPath(name string) (string, error)
	GlobalImportPath(name string) (string, error)
}

// Deps are the collaborators of a ConfigPlugin.
type Deps struct {
	Resolver Resolver
	// SearchRoot returns the workspace root for a directory.
	SearchRoot func(dir string) string
	CSS        CSSLoader
	Index      IndexRenderer
	// ClientDependencies are the declared runtime dependencies of the client package.
	ClientDependencies []string
}

// ConfigPlugin provides the host's configuration and server-setup hooks.
type ConfigPlugin struct {
	opts atomic.Pointer[types.ResolvedOptions]
	deps Deps
	log  zerolog.Logger
}

// NewConfigPlugin creates a ConfigPlugin for one invocation.
func NewConfigPlugin(opts *types.ResolvedOptions, deps Deps) *ConfigPlugin {
	if deps.SearchRoot == nil {
		deps.SearchRoot = func(dir string) string { return dir }
	}
	p := &ConfigPlugin{
		deps: deps,
		log:  logging.Component("config"),
	}
	p.opts.Store(opts)
	return p
}

// Name implements the host plugin contract.
func (p *ConfigPlugin) Name() string {
	return Name
}

// Options returns the current options snapshot.
func (p *ConfigPlugin) Options() *types.ResolvedOptions {
	return p.opts.Load()
}

// SetOptions replaces the options snapshot used by later requests.
func (p *ConfigPlugin) SetOptions(opts *types.ResolvedOptions) {
	p.opts.Store(opts)
}

// Config is the configuration hook. It layers user on top of the injected
// fragment and returns a new tree; user is not modified.
func (p *ConfigPlugin) Config(ctx context.Context, user types.InlineConfig) (types.InlineConfig, error) {
	return p.configFor(ctx, p.Options(), user)
}

// Reconfigure builds the configuration for opts and, only if that succeeds,
// makes opts the current snapshot. On error the previous snapshot stays.
func (p *ConfigPlugin) Reconfigure(ctx context.Context, opts *types.ResolvedOptions, user types.InlineConfig) (types.InlineConfig, error) {
	cfg, err := p.configFor(ctx, opts, user)
	if err != nil {
		return nil, err
	}
	p.opts.Store(opts)
	return cfg, nil
}

func (p *ConfigPlugin) configFor(ctx context.Context, opts *types.ResolvedOptions, user types.InlineConfig) (types.InlineConfig, error) {
	fragment, err := p.fragmentFor(ctx, opts)
	if err != nil {
		return nil, err
	}
	injected := fragment.InlineConfig()
	if entries, ok := aliasEntries(fragment.Alias, user); ok {
		injected["resolve"].(map[string]any)["alias"] = entries
	}
	return merge.Merge(injected, user), nil
}

// aliasEntries converts alias to the [{find, replacement}] form when the
// user's resolve.alias is written that way, so both sides merge as one list.
func aliasEntries(alias map[string]string, user types.InlineConfig) ([]any, bool) {
	v, ok := user.Lookup("resolve.alias")
	if !ok || v == nil {
		return nil, false
	}
	switch v.(type) {
	case []any, []map[string]any:
	default:
		return nil, false
	}

	keys := make([]string, 0, len(alias))
	for k := range alias {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]any, len(keys))
	for i, k := range keys {
		entries[i] = map[string]any{"find": k, "replacement": alias[k]}
	}
	return entries, true
}

// Fragment builds the injected configuration from the current options.
func (p *ConfigPlugin) Fragment(ctx context.Context) (*Fragment, error) {
	return p.fragmentFor(ctx, p.Options())
}

func (p *ConfigPlugin) fragmentFor(ctx context.Context, opts *types.ResolvedOptions) (*Fragment, error) {
	f := &Fragment{
		Define: Define(opts),
		Alias: map[string]string{
			clientPackage + "/": resolve.ToAtFS(opts.ClientRoot) + "/",
		},
		Dedupe:          []string{uiFramework},
		OptimizeInclude: OptimizeInclude(p.deps.ClientDependencies),
		OptimizeExclude: slices.Clone(Exclude),
		FSStrict:        true,
		PublicDir:       filepath.Join(opts.UserRoot, "public"),
	}

	if opts.Data.Config.CSS == "unocss" {
		if p.deps.CSS == nil {
			return nil, fmt.Errorf("%w: no loader configured", ErrPluginUnavailable)
		}
		plugin, err := p.deps.CSS.LoadNested(ctx)
		if err != nil {
			return nil, err
		}
		f.PostCSSPlugins = []types.PostCSSPlugin{plugin}
	}

	allow, err := p.allowList(opts)
	if err != nil {
		return nil, err
	}
	f.FSAllow = allow

	if opts.Topology.IsGlobal() {
		f.CacheDir = filepath.Join(opts.CLIRoot, "node_modules", ".vite")
		f.Root = opts.CLIRoot

		vue, err := p.deps.Resolver.RequireImportPath(uiBrowserESM)
		if err != nil {
			return nil, err
		}
		f.Alias[uiFramework] = vue
	}

	p.log.Debug().
		Str("topology", string(opts.Topology)).
		Strs("allow", f.FSAllow).
		Int("include", len(f.OptimizeInclude)).
		Msg("config fragment assembled")

	return f, nil
}

// allowList returns the directories the host may serve files from.
func (p *ConfigPlugin) allowList(opts *types.ResolvedOptions) ([]string, error) {
	dirs := []string{
		p.deps.SearchRoot(opts.UserRoot),
		p.deps.SearchRoot(opts.CLIRoot),
	}

	if opts.Topology.IsGlobal() {
		for _, name := range []string{clientPackage + "/package.json", mathAssets + "/package.json"} {
			path, err := p.deps.Resolver.GlobalImportPath(name)
			if err != nil {
				return nil, err
			}
			dirs = append(dirs, filepath.Dir(path))
		}
	}

	return uniqStrings(dirs), nil
}

// OptimizeInclude returns deps minus Exclude, followed by DeepImports.
func OptimizeInclude(deps []string) []string {
	include := make([]string, 0, len(deps)+len(DeepImports))
	for _, dep := range deps {
		if !slices.Contains(Exclude, dep) {
			include = append(include, dep)
		}
	}
	return append(include, DeepImports...)
}

func uniqStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
