package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kolibry/kolibry/pkg/types"
)

func TestGoogleFontsURL(t *testing.T) {
	tests := []struct {
		name string
		opts types.FontOptions
		want string
	}{
		{
			name: "single family",
			opts: types.FontOptions{Webfonts: []string{"Roboto"}, Weights: []string{"400", "200", "600"}},
			want: "https://fonts.googleapis.com/css2?family=Roboto:wght@200;400;600&display=swap",
		},
		{
			name: "italic axis",
			opts: types.FontOptions{Webfonts: []string{"Nunito Sans"}, Weights: []string{"400", "200"}, Italic: true},
			want: "https://fonts.googleapis.com/css2?family=Nunito+Sans:ital,wght@0,200;0,400;1,200;1,400&display=swap",
		},
		{
			name: "quoted names and whitespace runs",
			opts: types.FontOptions{Webfonts: []string{`"Fira Code"`, "'Source  Sans Pro'"}, Weights: []string{"400"}},
			want: "https://fonts.googleapis.com/css2?family=Fira+Code:wght@400&family=Source+Sans+Pro:wght@400&display=swap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GoogleFontsURL(tt.opts))
		})
	}
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "Inter", unquote(`"Inter"`))
	assert.Equal(t, "Inter", unquote(`'Inter'`))
	assert.Equal(t, `"Inter'`, unquote(`"Inter'`))
	assert.Equal(t, `"`, unquote(`"`))
}
