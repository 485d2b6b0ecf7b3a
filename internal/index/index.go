// Package index renders the single-page application shell served for every
// client-side route.
package index

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"

	"github.com/kolibry/kolibry/internal/resolve"
	"github.com/kolibry/kolibry/pkg/types"
)

// EntryPlaceholder in the client's index.html is replaced by the client entry module URL.
const EntryPlaceholder = "__ENTRY__"

// Renderer builds index.html from the client template and the user's project.
type Renderer struct {
	fs afero.Fs
}

// New creates a Renderer reading from fs.
func New(fs afero.Fs) *Renderer {
	return &Renderer{fs: fs}
}

// IndexHTML renders the document for opts:
//   - the client template's entry placeholder points at the client main module
//   - the deck title is set
//   - a stylesheet link is added for Google web fonts
//   - head and body content of <userRoot>/index.html, when present, is appended
func (r *Renderer) IndexHTML(ctx context.Context, opts *types.ResolvedOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := afero.ReadFile(r.fs, filepath.Join(opts.ClientRoot, "index.html"))
	if err != nil {
		return "", fmt.Errorf("read client index.html: %w", err)
	}

	entry := resolve.ToAtFS(filepath.Join(opts.ClientRoot, "main.ts"))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(strings.ReplaceAll(string(data), EntryPlaceholder, entry)))
	if err != nil {
		return "", fmt.Errorf("parse client index.html: %w", err)
	}

	head := doc.Find("head").First()
	body := doc.Find("body").First()

	cfg := opts.Data.Config
	if cfg.Title != "" {
		if head.Find("title").Length() == 0 {
			head.AppendHtml("<title></title>")
		}
		head.Find("title").First().SetText(cfg.Title)
	}

	if len(cfg.Fonts.Webfonts) > 0 && cfg.Fonts.Provider == types.FontProviderGoogle {
		head.AppendHtml(`<link rel="stylesheet" href="` + html.EscapeString(GoogleFontsURL(cfg.Fonts)) + `">`)
	}

	if err := r.appendUserIndex(opts.UserRoot, head, body); err != nil {
		return "", err
	}

	return doc.Html()
}

func (r *Renderer) appendUserIndex(userRoot string, head, body *goquery.Selection) error {
	data, err := afero.ReadFile(r.fs, filepath.Join(userRoot, "index.html"))
	if err != nil {
		return nil
	}

	user, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("parse user index.html: %w", err)
	}

	if inner, err := user.Find("head").First().Html(); err == nil && strings.TrimSpace(inner) != "" {
		head.AppendHtml(inner)
	}
	if inner, err := user.Find("body").First().Html(); err == nil && strings.TrimSpace(inner) != "" {
		body.AppendHtml(inner)
	}
	return nil
}
