package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kolibry/kolibry/pkg/types"
)

// ErrPluginUnavailable is returned when an optional host plugin cannot be loaded.
var ErrPluginUnavailable = errors.New("plugin unavailable")

// CSSLoader loads the CSS post-processor used with the UnoCSS engine.
type CSSLoader interface {
	LoadNested(ctx context.Context) (types.PostCSSPlugin, error)
}

// PostCSSNested is the nesting post-processor handed to the host's CSS pipeline.
type PostCSSNested struct {
	Dir string
}

// PluginName implements types.PostCSSPlugin.
func (p *PostCSSNested) PluginName() string {
	return "postcss-nested"
}

// MarshalJSON describes the plugin when the configuration is dumped.
func (p *PostCSSNested) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"name": p.PluginName(), "dir": p.Dir})
}

// PackageLocator finds installed packages without failing.
type PackageLocator interface {
	PackageExists(name string) bool
	ImportPath(name string) (string, bool)
}

// ResolverCSSLoader locates postcss-nested through the package resolver.
type ResolverCSSLoader struct {
	Packages PackageLocator
}

// LoadNested implements CSSLoader.
func (l ResolverCSSLoader) LoadNested(ctx context.Context) (types.PostCSSPlugin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.Packages.PackageExists("postcss-nested") {
		return nil, fmt.Errorf("%w: postcss-nested", ErrPluginUnavailable)
	}
	path, _ := l.Packages.ImportPath("postcss-nested/package.json")
	return &PostCSSNested{Dir: filepath.Dir(path)}, nil
}
