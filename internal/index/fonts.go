package index

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kolibry/kolibry/pkg/types"
)

var whitespace = regexp.MustCompile(`\s+`)

// GoogleFontsURL builds the Google Fonts CSS2 URL for the configured web fonts.
func GoogleFontsURL(opts types.FontOptions) string {
	var weights []string
	for _, w := range opts.Weights {
		if opts.Italic {
			weights = append(weights, "0,"+w, "1,"+w)
		} else {
			weights = append(weights, w)
		}
	}
	sort.Strings(weights)
	wght := strings.Join(weights, ";")

	axes := "wght@"
	if opts.Italic {
		axes = "ital,wght@"
	}

	families := make([]string, 0, len(opts.Webfonts))
	for _, font := range opts.Webfonts {
		name := whitespace.ReplaceAllString(unquote(strings.TrimSpace(font)), "+")
		families = append(families, "family="+name+":"+axes+wght)
	}

	return "https://fonts.googleapis.com/css2?" + strings.Join(families, "&") + "&display=swap"
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
