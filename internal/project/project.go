// Package project locates package and workspace roots by walking up the
// directory tree.
package project

import (
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// rootFiles mark a monorepo root.
var rootFiles = []string{
	"pnpm-workspace.yaml",
	"lerna.json",
}

// Searcher finds roots on a filesystem and caches workspace results per start directory.
type Searcher struct {
	fs afero.Fs

	mu    sync.RWMutex
	cache map[string]string
}

// NewSearcher creates a Searcher.
func NewSearcher(fs afero.Fs) *Searcher {
	return &Searcher{
		fs:    fs,
		cache: make(map[string]string),
	}
}

// PackageRoot returns the nearest directory at or above current that holds a
// package.json, or current itself when there is none.
func (s *Searcher) PackageRoot(current string) string {
	dir := filepath.Clean(current)
	for {
		if s.exists(filepath.Join(dir, "package.json")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return current
		}
		dir = parent
	}
}

// WorkspaceRoot returns the nearest directory at or above current that is a
// workspace root: it holds a root marker file or a package.json declaring
// "workspaces". Without one, the package root of current is returned.
func (s *Searcher) WorkspaceRoot(current string) string {
	current = filepath.Clean(current)

	s.mu.RLock()
	if root, ok := s.cache[current]; ok {
		s.mu.RUnlock()
		return root
	}
	s.mu.RUnlock()

	root := s.searchWorkspace(current, s.PackageRoot(current))

	s.mu.Lock()
	s.cache[current] = root
	s.mu.Unlock()
	return root
}

func (s *Searcher) searchWorkspace(dir, fallback string) string {
	for {
		if s.hasRootFile(dir) || s.hasWorkspacePackageJSON(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return fallback
		}
		dir = parent
	}
}

func (s *Searcher) hasRootFile(dir string) bool {
	for _, name := range rootFiles {
		if s.exists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

func (s *Searcher) hasWorkspacePackageJSON(dir string) bool {
	data, err := afero.ReadFile(s.fs, filepath.Join(dir, "package.json"))
	if err != nil {
		return false
	}
	return gjson.GetBytes(data, "workspaces").Exists()
}

func (s *Searcher) exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// ClearCache drops cached workspace roots.
func (s *Searcher) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]string)
}
