package server

import (
	"net/http"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"

	"github.com/kolibry/kolibry/internal/resolve"
)

// ConfigPath serves the merged host configuration.
const ConfigPath = "/__kolibry/config"

var indexFile = filepath.FromSlash("/index.html")

// DefaultDeny is used when server.fs.deny is not configured. Patterns match
// the file's base name or its slash-separated absolute path.
var DefaultDeny = []string{".env", ".env.*", "*.{crt,pem}"}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Not found: "+r.URL.Path)
	})

	r.Get(ConfigPath, s.getConfig)
	r.Get("/@fs/*", s.serveFS)
	r.Get("/*", s.serveStatic)
}

// getConfig handles GET /__kolibry/config
func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.HostConfig())
}

// serveFS handles GET /@fs/*, serving an absolute path from the allow-list
// unless it matches the deny list.
func (s *Server) serveFS(w http.ResponseWriter, r *http.Request) {
	target := filepath.FromSlash(path.Clean("/" + chi.URLParam(r, "*")))

	if !s.allowed(target) || s.denied(target) {
		s.log.Warn().Str("path", target).Msg("fs access denied")
		writeError(w, http.StatusForbidden, ErrCodePermissionDenied, "The request path is outside of the serving allow list")
		return
	}

	if !s.serveFile(w, r, target) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Not found: "+r.URL.Path)
	}
}

// serveStatic handles GET /*: the public directory first, then the root,
// except the root's index.html which the HTML fallback renders. Unmatched
// requests continue down the router's NotFound chain; paths without an
// extension are rewritten to /index.html first so client-side routes reach
// the HTML fallback.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	inline := s.HostConfig()
	rel := filepath.FromSlash(path.Clean("/" + chi.URLParam(r, "*")))

	if public := inline.String("publicDir"); public != "" {
		if s.serveFile(w, r, filepath.Join(public, rel)) {
			return
		}
	}

	root := inline.String("root")
	if root == "" {
		root = s.config.Root
	}
	if root != "" && rel != indexFile {
		if name := filepath.Join(root, rel); !s.denied(name) && s.serveFile(w, r, name) {
			return
		}
	}

	if path.Ext(r.URL.Path) == "" {
		r2 := r.Clone(r.Context())
		r2.URL.Path = filepath.ToSlash(indexFile)
		r = r2
	}
	s.router.NotFoundHandler().ServeHTTP(w, r)
}

// allowed reports whether target may be served under server.fs.
func (s *Server) allowed(target string) bool {
	inline := s.HostConfig()
	if !inline.Bool("server.fs.strict", false) {
		return true
	}
	for _, dir := range inline.Strings("server.fs.allow") {
		dir = filepath.Clean(dir)
		if target == dir || resolve.IsPathInside(target, dir) {
			return true
		}
	}
	return false
}

// denied reports whether target matches a server.fs.deny pattern.
func (s *Server) denied(target string) bool {
	patterns := s.HostConfig().Strings("server.fs.deny")
	if len(patterns) == 0 {
		patterns = DefaultDeny
	}
	base := filepath.Base(target)
	slashed := filepath.ToSlash(target)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// serveFile writes the regular file at name and reports whether it existed.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	f, err := s.fs.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
