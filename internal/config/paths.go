package config

import (
	"os"
	"path/filepath"
)

// DefaultEntry is used when no entry file is given.
const DefaultEntry = "slides.md"

// CLIRoot returns the root of the CLI installation.
func CLIRoot() (string, error) {
	if dir := os.Getenv("KOLIBRY_CLI_ROOT"); dir != "" {
		return filepath.Abs(dir)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	// <root>/bin/kolibry
	return filepath.Dir(filepath.Dir(exe)), nil
}

// EntryPath returns the absolute path of the entry markdown. An entry
// without an extension gets ".md".
func EntryPath(entry string) (string, error) {
	if entry == "" {
		entry = DefaultEntry
	}
	if filepath.Ext(entry) == "" {
		entry += ".md"
	}
	return filepath.Abs(entry)
}

// UserConfigFiles returns the host configuration files looked up in userRoot.
func UserConfigFiles(userRoot string) []string {
	return []string{
		filepath.Join(userRoot, "vite.config.json"),
		filepath.Join(userRoot, "vite.config.jsonc"),
	}
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		return filepath.Join(os.Getenv("HOME"), path[2:])
	}
	return path
}
