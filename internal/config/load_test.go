package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolibry/kolibry/pkg/types"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"KOLIBRY_VITE_CONFIG", "KOLIBRY_VITE_CONFIG_CONTENT", "KOLIBRY_PORT", "KOLIBRY_HOST"} {
		t.Setenv(key, "")
	}
}

func TestLoadUserConfigEmpty(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadUserConfig(afero.NewMemMapFs(), "/deck")
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestLoadUserConfigLayers(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DECK_API", "https://api.example.com")
	fs := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "/deck/vite.config.json", []byte(`{
		"server": {"port": 3030, "fs": {"allow": ["/shared"]}},
		"resolve": {"dedupe": ["vue", "pinia"]}
	}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/deck/vite.config.jsonc", []byte(`{
		// local overrides
		"server": {"port": 4000},
		"define": {"__API__": "\"{env:DECK_API}\""}
	}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/etc/kolibry/extra.json", []byte(`{"server": {"fs": {"allow": ["/assets"]}}}`), 0644))
	t.Setenv("KOLIBRY_VITE_CONFIG", "/etc/kolibry/extra.json")
	t.Setenv("KOLIBRY_VITE_CONFIG_CONTENT", `{"resolve": {"dedupe": ["pinia", "lodash"]}}`)
	t.Setenv("KOLIBRY_HOST", "0.0.0.0")

	cfg, err := LoadUserConfig(fs, "/deck")
	require.NoError(t, err)

	port, ok := cfg.Int("server.port")
	require.True(t, ok)
	assert.Equal(t, 4000, port)
	assert.Equal(t, "0.0.0.0", cfg.String("server.host"))
	assert.Equal(t, []string{"/shared", "/assets"}, cfg.Strings("server.fs.allow"))
	assert.Equal(t, []string{"vue", "pinia", "lodash"}, cfg.Strings("resolve.dedupe"))
	assert.Equal(t, `"https://api.example.com"`, cfg.String("define.__API__"))
}

func TestLoadUserConfigPortOverride(t *testing.T) {
	clearConfigEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/deck/vite.config.json", []byte(`{"server": {"port": 3030}}`), 0644))

	t.Setenv("KOLIBRY_PORT", "8080")
	cfg, err := LoadUserConfig(fs, "/deck")
	require.NoError(t, err)
	port, _ := cfg.Int("server.port")
	assert.Equal(t, 8080, port)

	t.Setenv("KOLIBRY_PORT", "http")
	_, err = LoadUserConfig(fs, "/deck")
	assert.ErrorContains(t, err, "KOLIBRY_PORT")
}

func TestLoadUserConfigFilePlaceholder(t *testing.T) {
	clearConfigEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/deck/banner.txt", []byte("line \"one\"\nline two\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/deck/vite.config.json", []byte(`{
		"banner": "{file:banner.txt}",
		"missing": "{file:nope.txt}"
	}`), 0644))

	cfg, err := LoadUserConfig(fs, "/deck")
	require.NoError(t, err)
	assert.Equal(t, "line \"one\"\nline two", cfg.String("banner"))
	assert.Equal(t, "{file:nope.txt}", cfg.String("missing"))
}

func TestLoadUserConfigErrors(t *testing.T) {
	clearConfigEnv(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/deck/vite.config.json", []byte(`{"server": `), 0644))
	_, err := LoadUserConfig(fs, "/deck")
	assert.ErrorContains(t, err, "vite.config.json")

	t.Setenv("KOLIBRY_VITE_CONFIG_CONTENT", `not json`)
	_, err = LoadUserConfig(afero.NewMemMapFs(), "/deck")
	assert.ErrorContains(t, err, "KOLIBRY_VITE_CONFIG_CONTENT")
}

func TestLoadUserConfigReturnsInlineConfig(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("KOLIBRY_PORT", "3030")

	cfg, err := LoadUserConfig(afero.NewMemMapFs(), "/deck")
	require.NoError(t, err)
	assert.IsType(t, types.InlineConfig{}, cfg)
	assert.Equal(t, types.InlineConfig{"server": map[string]any{"port": 3030}}, cfg)
}
