package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kolibry/kolibry/internal/config"
	"github.com/kolibry/kolibry/internal/plugins"
	"github.com/kolibry/kolibry/pkg/types"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"dev", "build", "export"} {
		m, err := parseMode(s)
		require.NoError(t, err)
		assert.Equal(t, types.Mode(s), m)
	}

	_, err := parseMode("preview")
	assert.ErrorContains(t, err, "unknown mode")
}

func TestWriteConfig(t *testing.T) {
	inline := types.InlineConfig{"server": map[string]any{"port": 3030}}

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, inline, "json"))
	assert.JSONEq(t, `{"server":{"port":3030}}`, buf.String())

	buf.Reset()
	require.NoError(t, writeConfig(&buf, inline, "yaml"))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]any{"server": map[string]any{"port": 3030}}, decoded)

	assert.Error(t, writeConfig(&buf, inline, "toml"))
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestConfigCommand(t *testing.T) {
	root := t.TempDir()
	cliRoot := filepath.Join(root, "cli")
	writeTree(t, root, map[string]string{
		"cli/node_modules/@kolibry/client/package.json": `{"dependencies": {"vue": "^3", "codemirror": "^5"}}`,
		"cli/node_modules/postcss-nested/package.json":  `{"name": "postcss-nested"}`,
		"deck/slides.md":                                 "---\ntitle: Test Deck\n---\n# Hello\n",
		"deck/vite.config.json":                          `{"server": {"port": 4444}}`,
	})

	t.Setenv("KOLIBRY_CLI_ROOT", cliRoot)
	t.Setenv("KOLIBRY_TOPOLOGY", "local")
	t.Setenv("KOLIBRY_VITE_CONFIG", "")
	t.Setenv("KOLIBRY_VITE_CONFIG_CONTENT", "")
	t.Setenv("KOLIBRY_PORT", "")
	t.Setenv("KOLIBRY_HOST", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", filepath.Join(root, "deck", "slides.md"), "--format", "json"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, Execute())

	var cfg types.InlineConfig
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))

	port, ok := cfg.Int("server.port")
	require.True(t, ok)
	assert.Equal(t, 4444, port)
	assert.True(t, cfg.Bool("server.fs.strict", false))
	assert.Equal(t, "true", cfg.String("define.__DEV__"))
	assert.Equal(t, filepath.Join(root, "deck", "public"), cfg.String("publicDir"))

	include := cfg.Strings("optimizeDeps.include")
	assert.Contains(t, include, "codemirror")
	assert.NotContains(t, include, "vue")

	clientRoot := filepath.Join(cliRoot, "node_modules", "@kolibry", "client")
	if real, err := filepath.EvalSymlinks(clientRoot); err == nil {
		clientRoot = real
	}
	alias, _ := cfg.Lookup("resolve.alias")
	assert.Equal(t, "/@fs"+filepath.ToSlash(clientRoot)+"/", alias.(map[string]any)["@kolibry/client/"])
}

func TestReloadKeepsOptionsOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	entry := "/deck/slides.md"
	require.NoError(t, afero.WriteFile(fs, entry, []byte("---\ntitle: First\ncss: none\n---\n# A\n"), 0644))

	data, err := config.LoadSlidesData(fs, entry)
	require.NoError(t, err)
	opts := &types.ResolvedOptions{
		Mode:     types.ModeDev,
		Entry:    entry,
		UserRoot: "/deck",
		CLIRoot:  "/cli",
		Topology: types.TopologyLocal,
		Data:     data,
	}
	d := &deck{fs: fs, plugin: plugins.NewConfigPlugin(opts, plugins.Deps{}), user: types.InlineConfig{}}

	require.NoError(t, afero.WriteFile(fs, entry, []byte("---\ntitle: Second\ncss: none\n---\n# B\n"), 0644))
	_, err = d.reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Second", d.plugin.Options().Data.Config.Title)

	// unocss needs a CSS loader, which this deck lacks.
	require.NoError(t, afero.WriteFile(fs, entry, []byte("---\ntitle: Third\ncss: unocss\n---\n# C\n"), 0644))
	_, err = d.reload(context.Background())
	assert.ErrorIs(t, err, plugins.ErrPluginUnavailable)
	assert.Equal(t, "Second", d.plugin.Options().Data.Config.Title)
}
