package resolve

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolibry/kolibry/pkg/types"
)

// fakePrimitive resolves from a fixed table and records every lookup.
type fakePrimitive struct {
	found map[string]string
	calls []string
}

func (f *fakePrimitive) Resolve(specifier, basedir string) (string, error) {
	f.calls = append(f.calls, specifier)
	if p, ok := f.found[specifier]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrModuleNotFound, specifier)
}

var testDirs = GlobalDirs{
	YarnPackages: "/home/u/.config/yarn/global/node_modules",
	NpmPackages:  "/usr/local/lib/node_modules",
}

func yarnPath(name string) string { return filepath.Join(testDirs.YarnPackages, name) }
func npmPath(name string) string  { return filepath.Join(testDirs.NpmPackages, name) }

func TestImportPathLocalWins(t *testing.T) {
	prim := &fakePrimitive{found: map[string]string{
		"vue":          "/cli/node_modules/vue/index.js",
		yarnPath("vue"): "/yarn/vue/index.js",
		npmPath("vue"):  "/npm/vue/index.js",
	}}
	r := New("/cli", types.TopologyGlobal, testDirs, prim)

	path, ok := r.ImportPath("vue")
	require.True(t, ok)
	assert.Equal(t, "/cli/node_modules/vue/index.js", path)
	assert.Equal(t, []string{"vue"}, prim.calls, "later strategies must not be consulted")
}

func TestImportPathGlobalOrder(t *testing.T) {
	t.Run("yarn before npm", func(t *testing.T) {
		prim := &fakePrimitive{found: map[string]string{
			yarnPath("katex"): "/yarn/katex/index.js",
			npmPath("katex"):  "/npm/katex/index.js",
		}}
		r := New("/cli", types.TopologyGlobal, testDirs, prim)

		path, ok := r.ImportPath("katex")
		require.True(t, ok)
		assert.Equal(t, "/yarn/katex/index.js", path)
		assert.Equal(t, []string{"katex", yarnPath("katex")}, prim.calls)
	})

	t.Run("npm last", func(t *testing.T) {
		prim := &fakePrimitive{found: map[string]string{
			npmPath("katex"): "/npm/katex/index.js",
		}}
		r := New("/cli", types.TopologyGlobal, testDirs, prim)

		path, ok := r.ImportPath("katex")
		require.True(t, ok)
		assert.Equal(t, "/npm/katex/index.js", path)
		assert.Equal(t, []string{"katex", yarnPath("katex"), npmPath("katex")}, prim.calls)
	})
}

func TestImportPathLocalTopologySkipsGlobalStores(t *testing.T) {
	prim := &fakePrimitive{found: map[string]string{
		yarnPath("katex"): "/yarn/katex/index.js",
	}}
	r := New("/cli", types.TopologyLocal, testDirs, prim)

	path, ok := r.ImportPath("katex")
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Equal(t, []string{"katex"}, prim.calls)
}

func TestImportPathSkipsUnknownStores(t *testing.T) {
	prim := &fakePrimitive{found: map[string]string{}}
	r := New("/cli", types.TopologyGlobal, GlobalDirs{NpmPackages: testDirs.NpmPackages}, prim)

	_, ok := r.ImportPath("katex")
	assert.False(t, ok)
	assert.Equal(t, []string{"katex", npmPath("katex")}, prim.calls)
}

func TestRequireImportPath(t *testing.T) {
	prim := &fakePrimitive{found: map[string]string{
		"vue/dist/vue.esm-browser.js": "/cli/node_modules/vue/dist/vue.esm-browser.js",
	}}
	r := New("/cli", types.TopologyLocal, testDirs, prim)

	path, err := r.RequireImportPath("vue/dist/vue.esm-browser.js")
	require.NoError(t, err)
	assert.Equal(t, "/cli/node_modules/vue/dist/vue.esm-browser.js", path)

	_, err = r.RequireImportPath("missing-pkg")
	require.Error(t, err)
	assert.Equal(t, `Failed to resolve package "missing-pkg"`, err.Error())
	assert.True(t, errors.Is(err, ErrPackageNotFound))

	var notFound *PackageNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing-pkg", notFound.Name)
	assert.False(t, notFound.Global)
}

func TestGlobalImportPathIgnoresTopology(t *testing.T) {
	prim := &fakePrimitive{found: map[string]string{
		npmPath("@kolibry/client/package.json"): "/npm/@kolibry/client/package.json",
	}}
	r := New("/cli", types.TopologyLocal, testDirs, prim)

	path, err := r.GlobalImportPath("@kolibry/client/package.json")
	require.NoError(t, err)
	assert.Equal(t, "/npm/@kolibry/client/package.json", path)

	_, err = r.GlobalImportPath("katex/package.json")
	require.Error(t, err)
	assert.Equal(t, `Failed to resolve global package "katex/package.json"`, err.Error())
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestPackageExists(t *testing.T) {
	prim := &fakePrimitive{found: map[string]string{
		"postcss-nested/package.json": "/cli/node_modules/postcss-nested/package.json",
	}}
	r := New("/cli", types.TopologyLocal, testDirs, prim)

	assert.True(t, r.PackageExists("postcss-nested"))
	assert.False(t, r.PackageExists("unocss"))
}

func TestToAtFS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/u/client", "/@fs/home/u/client"},
		{`C:\Users\u\client`, "/@fs/C:/Users/u/client"},
		{"relative/dir", "/@fs/relative/dir"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToAtFS(tt.in))
		})
	}
}
