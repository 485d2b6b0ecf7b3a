package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kolibry/kolibry/internal/logging"
	"github.com/kolibry/kolibry/internal/markdown"
	"github.com/kolibry/kolibry/internal/resolve"
	"github.com/kolibry/kolibry/pkg/types"
)

// DefaultTitle is used when the deck has neither a title nor a heading.
const DefaultTitle = "Kolibry"

const clientManifest = "@kolibry/client/package.json"

// Install describes where the CLI runs from.
type Install struct {
	CLIRoot   string
	Dirs      resolve.GlobalDirs
	Primitive resolve.Primitive
}

// ResolveOptions builds the options snapshot for entry in mode, together
// with the package resolver bound to the detected topology.
func ResolveOptions(fsys afero.Fs, entry string, mode types.Mode, install Install) (*types.ResolvedOptions, *resolve.Resolver, error) {
	entryPath, err := EntryPath(entry)
	if err != nil {
		return nil, nil, err
	}

	data, err := LoadSlidesData(fsys, entryPath)
	if err != nil {
		return nil, nil, err
	}

	topology := Topology(install.CLIRoot, install.Dirs)
	resolver := resolve.New(install.CLIRoot, topology, install.Dirs, install.Primitive)

	manifest, err := resolver.RequireImportPath(clientManifest)
	if err != nil {
		return nil, nil, err
	}

	opts := &types.ResolvedOptions{
		Mode:       mode,
		Entry:      entryPath,
		UserRoot:   filepath.Dir(entryPath),
		CLIRoot:    install.CLIRoot,
		ClientRoot: filepath.Dir(manifest),
		Topology:   topology,
		Data:       data,
	}

	logging.Debug().
		Str("entry", opts.Entry).
		Str("clientRoot", opts.ClientRoot).
		Str("topology", string(topology)).
		Msg("options resolved")

	return opts, resolver, nil
}

// Reload returns a copy of prev with the entry document read again.
func Reload(fsys afero.Fs, prev *types.ResolvedOptions) (*types.ResolvedOptions, error) {
	data, err := LoadSlidesData(fsys, prev.Entry)
	if err != nil {
		return nil, err
	}
	next := *prev
	next.Data = data
	return &next, nil
}

// Topology returns the installation topology of cliRoot. KOLIBRY_TOPOLOGY
// takes precedence over detection.
func Topology(cliRoot string, dirs resolve.GlobalDirs) types.Topology {
	if forced, ok := types.ParseTopology(os.Getenv("KOLIBRY_TOPOLOGY")); ok {
		return forced
	}
	return resolve.DetectTopology(cliRoot, dirs)
}

// LoadSlidesData reads the entry markdown and decodes its headmatter.
func LoadSlidesData(fsys afero.Fs, entryPath string) (types.SlidesData, error) {
	src, err := afero.ReadFile(fsys, entryPath)
	if err != nil {
		return types.SlidesData{}, fmt.Errorf("read entry: %w", err)
	}

	head, body := markdown.SplitHeadmatter(src)

	cfg := DefaultSlidesConfig()
	var headmatter map[string]any
	if len(head) > 0 {
		if err := yaml.Unmarshal(head, &cfg); err != nil {
			return types.SlidesData{}, fmt.Errorf("parse headmatter of %s: %w", entryPath, err)
		}
		if err := yaml.Unmarshal(head, &headmatter); err != nil {
			return types.SlidesData{}, fmt.Errorf("parse headmatter of %s: %w", entryPath, err)
		}
	}

	if cfg.Title == "" {
		cfg.Title = markdown.FirstHeading(body)
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if len(cfg.Fonts.Weights) == 0 {
		cfg.Fonts.Weights = slices.Clone(types.DefaultFontWeights)
	}

	return types.SlidesData{Config: cfg, Headmatter: headmatter}, nil
}

// DefaultSlidesConfig returns the configuration of a deck without headmatter.
func DefaultSlidesConfig() types.SlidesConfig {
	return types.SlidesConfig{
		CSS:        types.DefaultCSS,
		RouterMode: types.DefaultRouterMode,
		Drawings: types.DrawingsConfig{
			Enabled: types.Enabled(),
			Persist: types.Disabled(),
		},
		Record:    types.OnlyIn(types.ModeDev),
		Presenter: types.Enabled(),
		Fonts: types.FontOptions{
			Provider: types.FontProviderGoogle,
		},
	}
}
