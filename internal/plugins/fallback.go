package plugins

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/kolibry/kolibry/pkg/types"
)

// IndexRenderer renders the single-page application shell.
type IndexRenderer interface {
	IndexHTML(ctx context.Context, opts *types.ResolvedOptions) (string, error)
}

// ServerHost is the part of the host router the server-setup hook needs.
// *chi.Mux satisfies it.
type ServerHost interface {
	NotFound(h http.HandlerFunc)
	NotFoundHandler() http.HandlerFunc
}

// ConfigureServer installs the HTML fallback behind every other handler of
// host: it only sees requests nothing else served.
func (p *ConfigPlugin) ConfigureServer(host ServerHost) {
	next := host.NotFoundHandler()
	host.NotFound(p.Fallback(next).ServeHTTP)
}

// Fallback serves the index document for any ".html" path and passes every
// other request to next.
func (p *ConfigPlugin) Fallback(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".html") {
			next.ServeHTTP(w, r)
			return
		}

		html, err := p.deps.Index.IndexHTML(r.Context(), p.Options())
		if err != nil {
			p.log.Error().Err(err).Str("path", r.URL.Path).Msg("render index")
			http.Error(w, "failed to render index.html", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, html)
	})
}
