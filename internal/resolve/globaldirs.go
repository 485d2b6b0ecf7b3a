package resolve

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// GlobalDirs holds the package directories of the global package managers.
// An empty field means the store could not be located and is skipped.
type GlobalDirs struct {
	NpmPrefix    string `json:"npmPrefix"`
	NpmPackages  string `json:"npmPackages"`
	YarnPrefix   string `json:"yarnPrefix"`
	YarnPackages string `json:"yarnPackages"`
}

// DetectGlobalDirs locates the global npm and Yarn package directories.
//
// npm prefix, first match wins:
//   - npm_config_prefix / NPM_CONFIG_PREFIX
//   - "prefix" in ~/.npmrc
//   - two levels above the node binary found in PATH
//   - /usr/local (%APPDATA%\npm on Windows)
//
// Yarn packages live under YARN_GLOBAL_FOLDER when set, otherwise under the
// Yarn prefix's global folder.
func DetectGlobalDirs(fs afero.Fs) GlobalDirs {
	dirs := GlobalDirs{
		NpmPrefix:  npmPrefix(fs),
		YarnPrefix: yarnPrefix(fs),
	}

	if runtime.GOOS == "windows" {
		dirs.NpmPackages = filepath.Join(dirs.NpmPrefix, "node_modules")
	} else {
		dirs.NpmPackages = filepath.Join(dirs.NpmPrefix, "lib", "node_modules")
	}

	switch {
	case os.Getenv("YARN_GLOBAL_FOLDER") != "":
		dirs.YarnPackages = filepath.Join(os.Getenv("YARN_GLOBAL_FOLDER"), "node_modules")
	case runtime.GOOS == "windows" && os.Getenv("LOCALAPPDATA") != "":
		dirs.YarnPackages = filepath.Join(os.Getenv("LOCALAPPDATA"), "Yarn", "Data", "global", "node_modules")
	default:
		dirs.YarnPackages = filepath.Join(dirs.YarnPrefix, "global", "node_modules")
	}

	return dirs
}

func npmPrefix(fs afero.Fs) string {
	for _, key := range []string{"npm_config_prefix", "NPM_CONFIG_PREFIX"} {
		if v := os.Getenv(key); v != "" {
			return expandHome(v)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if prefix := readNpmrcPrefix(fs, filepath.Join(home, ".npmrc")); prefix != "" {
			return expandHome(prefix)
		}
	}

	if node, err := exec.LookPath("node"); err == nil {
		if runtime.GOOS == "windows" {
			return filepath.Dir(node)
		}
		return filepath.Dir(filepath.Dir(node))
	}

	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "npm")
	}
	return "/usr/local"
}

// readNpmrcPrefix reads the prefix key of an npmrc file. npmrc shares the
// key=value line format of dotenv files, including ${VAR} expansion; only the
// prefix line is handed to the parser since registry keys are not valid names.
func readNpmrcPrefix(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "prefix") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return ""
	}

	values, err := godotenv.Unmarshal(strings.Join(lines, "\n"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values["prefix"])
}

func yarnPrefix(fs afero.Fs) string {
	if v := os.Getenv("PREFIX"); v != "" {
		return v
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/usr/local"
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local", "Yarn")
	}

	for _, candidate := range []string{
		filepath.Join(home, ".config", "yarn"),
		filepath.Join(home, ".yarn-config"),
	} {
		if ok, _ := afero.DirExists(fs, candidate); ok {
			return candidate
		}
	}
	return "/usr/local"
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
