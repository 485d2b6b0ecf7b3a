package commands

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/kolibry/kolibry/internal/config"
	"github.com/kolibry/kolibry/internal/index"
	"github.com/kolibry/kolibry/internal/plugins"
	"github.com/kolibry/kolibry/internal/project"
	"github.com/kolibry/kolibry/internal/resolve"
	"github.com/kolibry/kolibry/pkg/types"
)

// deck wires the collaborators of one invocation.
type deck struct {
	fs     afero.Fs
	plugin *plugins.ConfigPlugin
	user   types.InlineConfig
}

func assemble(fs afero.Fs, entry string, mode types.Mode) (*deck, error) {
	cliRoot, err := config.CLIRoot()
	if err != nil {
		return nil, fmt.Errorf("locate CLI root: %w", err)
	}

	opts, resolver, err := config.ResolveOptions(fs, entry, mode, config.Install{
		CLIRoot:   cliRoot,
		Dirs:      resolve.DetectGlobalDirs(fs),
		Primitive: resolve.NewNodeResolver(fs),
	})
	if err != nil {
		return nil, err
	}

	clientDeps, err := plugins.ReadClientDependencies(fs, opts.ClientRoot)
	if err != nil {
		return nil, err
	}

	user, err := config.LoadUserConfig(fs, opts.UserRoot)
	if err != nil {
		return nil, err
	}

	plugin := plugins.NewConfigPlugin(opts, plugins.Deps{
		Resolver:           resolver,
		SearchRoot:         project.NewSearcher(fs).WorkspaceRoot,
		CSS:                plugins.ResolverCSSLoader{Packages: resolver},
		Index:              index.New(fs),
		ClientDependencies: clientDeps,
	})

	return &deck{fs: fs, plugin: plugin, user: user}, nil
}

// hostConfig runs the configuration hook over the user's host configuration.
func (d *deck) hostConfig(ctx context.Context) (types.InlineConfig, error) {
	return d.plugin.Config(ctx, d.user)
}

// reload re-reads the entry and returns the new host configuration. The
// plugin keeps its previous options unless the new configuration builds.
func (d *deck) reload(ctx context.Context) (types.InlineConfig, error) {
	next, err := config.Reload(d.fs, d.plugin.Options())
	if err != nil {
		return nil, err
	}
	return d.plugin.Reconfigure(ctx, next, d.user)
}
