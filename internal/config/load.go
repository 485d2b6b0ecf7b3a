package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/kolibry/kolibry/internal/merge"
	"github.com/kolibry/kolibry/pkg/types"
)

var (
	envPattern  = regexp.MustCompile(`\{env:([^}]+)\}`)
	filePattern = regexp.MustCompile(`\{file:([^}]+)\}`)
)

// LoadUserConfig loads the user's host configuration for userRoot.
func LoadUserConfig(fsys afero.Fs, userRoot string) (types.InlineConfig, error) {
	config := map[string]any{}
	loaded := make(map[string]bool)

	loadOnce := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if loaded[abs] {
			return nil
		}
		src, err := loadConfigFile(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		loaded[abs] = true
		config = merge.Merge(config, src)
		return nil
	}

	for _, path := range UserConfigFiles(userRoot) {
		if err := loadOnce(path); err != nil {
			return nil, err
		}
	}

	if path := os.Getenv("KOLIBRY_VITE_CONFIG"); path != "" {
		if err := loadOnce(expandHome(path)); err != nil {
			return nil, err
		}
	}

	if content := os.Getenv("KOLIBRY_VITE_CONFIG_CONTENT"); content != "" {
		var inline map[string]any
		if err := json.Unmarshal(jsonc.ToJSON([]byte(content)), &inline); err != nil {
			return nil, fmt.Errorf("KOLIBRY_VITE_CONFIG_CONTENT: %w", err)
		}
		config = merge.Merge(config, inline)
	}

	env, err := envOverrides()
	if err != nil {
		return nil, err
	}
	return merge.Merge(config, env), nil
}

// loadConfigFile reads one JSON or JSONC file with interpolation.
func loadConfigFile(fsys afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	data = jsonc.ToJSON(data)
	data = interpolate(fsys, data, filepath.Dir(path))

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
// An unreadable file leaves its placeholder in place.
func interpolate(fsys afero.Fs, data []byte, baseDir string) []byte {
	str := envPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		return os.Getenv(envPattern.FindStringSubmatch(match)[1])
	})

	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		path := expandHome(filePattern.FindStringSubmatch(match)[1])
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		content, err := afero.ReadFile(fsys, path)
		if err != nil {
			return match
		}

		// Marshal escapes for a JSON string body; drop the quotes.
		quoted, _ := json.Marshal(strings.TrimRight(string(content), "\n"))
		return string(quoted[1 : len(quoted)-1])
	})

	return []byte(str)
}

// envOverrides maps KOLIBRY_PORT and KOLIBRY_HOST onto server settings.
func envOverrides() (map[string]any, error) {
	server := map[string]any{}

	if port := os.Getenv("KOLIBRY_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 0 || n > 65535 {
			return nil, fmt.Errorf("invalid KOLIBRY_PORT %q", port)
		}
		server["port"] = n
	}
	if host := os.Getenv("KOLIBRY_HOST"); host != "" {
		server["host"] = host
	}

	if len(server) == 0 {
		return nil, nil
	}
	return map[string]any{"server": server}, nil
}
