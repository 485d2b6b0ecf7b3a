package plugins

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// ReadClientDependencies returns the declared runtime dependency names of the
// client package, in the order they appear in its package.json.
func ReadClientDependencies(fs afero.Fs, clientRoot string) ([]string, error) {
	path := filepath.Join(clientRoot, "package.json")
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read client manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("read client manifest: invalid JSON in %s", path)
	}

	var deps []string
	gjson.GetBytes(data, "dependencies").ForEach(func(key, _ gjson.Result) bool {
		deps = append(deps, key.String())
		return true
	})
	return deps, nil
}
