// Package resolve locates installed packages across the supported installation
// topologies: a local workspace, a CLI installed in the project, and a CLI
// installed globally whose dependencies live in a package manager's global store.
package resolve

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kolibry/kolibry/internal/logging"
	"github.com/kolibry/kolibry/pkg/types"
)

// Primitive resolves a single specifier relative to basedir and returns an
// absolute path. Absolute specifiers ignore basedir.
type Primitive interface {
	Resolve(specifier, basedir string) (string, error)
}

// Resolver runs the ordered fallback chain:
//  1. standard resolution from the CLI's own install directory
//  2. the global Yarn package directory
//  3. the global npm package directory
//
// The first strategy that succeeds wins.
type Resolver struct {
	baseDir   string
	topology  types.Topology
	dirs      GlobalDirs
	primitive Primitive
	log       zerolog.Logger
}

// New creates a Resolver rooted at baseDir.
func New(baseDir string, topology types.Topology, dirs GlobalDirs, primitive Primitive) *Resolver {
	return &Resolver{
		baseDir:   baseDir,
		topology:  topology,
		dirs:      dirs,
		primitive: primitive,
		log:       logging.Component("resolve"),
	}
}

// Topology returns the installation topology the resolver was built for.
func (r *Resolver) Topology() types.Topology {
	return r.topology
}

// ImportPath resolves name, consulting the global stores only when the CLI is
// globally installed. ok is false when nothing was found.
func (r *Resolver) ImportPath(name string) (path string, ok bool) {
	path, err := r.resolve(name, r.topology.IsGlobal())
	return path, err == nil
}

// RequireImportPath is ImportPath that fails with a *PackageNotFoundError.
func (r *Resolver) RequireImportPath(name string) (string, error) {
	path, ok := r.ImportPath(name)
	if !ok {
		return "", &PackageNotFoundError{Name: name}
	}
	return path, nil
}

// GlobalImportPath always consults both global stores after local resolution,
// regardless of topology, and fails with a *PackageNotFoundError marked Global.
func (r *Resolver) GlobalImportPath(name string) (string, error) {
	path, err := r.resolve(name, true)
	if err != nil {
		return "", &PackageNotFoundError{Name: name, Global: true}
	}
	return path, nil
}

// PackageExists reports whether name/package.json can be resolved.
func (r *Resolver) PackageExists(name string) bool {
	_, ok := r.ImportPath(name + "/package.json")
	return ok
}

var errExhausted = errors.New("resolution strategies exhausted")

func (r *Resolver) resolve(name string, withGlobal bool) (string, error) {
	if path, err := r.primitive.Resolve(name, r.baseDir); err == nil {
		r.log.Debug().Str("name", name).Str("strategy", "local").Str("path", path).Msg("resolved")
		return path, nil
	}

	if !withGlobal {
		return "", errExhausted
	}

	stores := []struct {
		strategy string
		dir      string
	}{
		{"yarn", r.dirs.YarnPackages},
		{"npm", r.dirs.NpmPackages},
	}
	for _, store := range stores {
		if store.dir == "" {
			continue
		}
		if path, err := r.primitive.Resolve(filepath.Join(store.dir, name), r.baseDir); err == nil {
			r.log.Debug().Str("name", name).Str("strategy", store.strategy).Str("path", path).Msg("resolved")
			return path, nil
		}
	}

	return "", errExhausted
}

// ToAtFS encodes an absolute filesystem path as a dev-server "/@fs" URL path.
func ToAtFS(path string) string {
	p := strings.ReplaceAll(path, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "/@fs" + p
}
