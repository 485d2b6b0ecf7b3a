package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// DefaultExtensions are tried, in order, when a specifier names a file without extension.
var DefaultExtensions = []string{".js", ".json", ".mjs", ".cjs"}

// NodeResolver implements Node's module resolution on an afero filesystem.
type NodeResolver struct {
	Fs         afero.Fs
	Extensions []string
}

// NewNodeResolver returns a NodeResolver using DefaultExtensions.
func NewNodeResolver(fs afero.Fs) *NodeResolver {
	return &NodeResolver{Fs: fs, Extensions: DefaultExtensions}
}

// Resolve implements Primitive.
func (n *NodeResolver) Resolve(specifier, basedir string) (string, error) {
	if specifier == "" {
		return "", fmt.Errorf("%w: empty specifier", ErrModuleNotFound)
	}

	if isPathSpecifier(specifier) {
		target := specifier
		if !filepath.IsAbs(target) {
			target = filepath.Join(basedir, target)
		}
		if path, ok := n.load(target); ok {
			return n.realpath(path), nil
		}
		return "", fmt.Errorf("%w %q", ErrModuleNotFound, specifier)
	}

	dir := filepath.Clean(basedir)
	for {
		if filepath.Base(dir) != "node_modules" {
			if path, ok := n.load(filepath.Join(dir, "node_modules", specifier)); ok {
				return n.realpath(path), nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w %q from %q", ErrModuleNotFound, specifier, basedir)
}

func isPathSpecifier(s string) bool {
	return filepath.IsAbs(s) ||
		s == "." || s == ".." ||
		strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

func (n *NodeResolver) load(path string) (string, bool) {
	if p, ok := n.loadAsFile(path); ok {
		return p, true
	}
	return n.loadAsDirectory(path)
}

func (n *NodeResolver) loadAsFile(path string) (string, bool) {
	if n.isFile(path) {
		return path, true
	}
	for _, ext := range n.extensions() {
		if n.isFile(path + ext) {
			return path + ext, true
		}
	}
	return "", false
}

func (n *NodeResolver) loadAsDirectory(path string) (string, bool) {
	if data, err := afero.ReadFile(n.Fs, filepath.Join(path, "package.json")); err == nil {
		if main := gjson.GetBytes(data, "main").String(); main != "" {
			target := filepath.Join(path, main)
			if p, ok := n.loadAsFile(target); ok {
				return p, true
			}
			if p, ok := n.loadIndex(target); ok {
				return p, true
			}
		}
	}
	return n.loadIndex(path)
}

func (n *NodeResolver) loadIndex(dir string) (string, bool) {
	for _, ext := range n.extensions() {
		p := filepath.Join(dir, "index"+ext)
		if n.isFile(p) {
			return p, true
		}
	}
	return "", false
}

func (n *NodeResolver) isFile(path string) bool {
	info, err := n.Fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (n *NodeResolver) extensions() []string {
	if n.Extensions == nil {
		return DefaultExtensions
	}
	return n.Extensions
}

// realpath follows symlinks on the OS filesystem so hoisted or linked
// packages report their physical location.
func (n *NodeResolver) realpath(path string) string {
	if _, ok := n.Fs.(*afero.OsFs); !ok {
		return path
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}
