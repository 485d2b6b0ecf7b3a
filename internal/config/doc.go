// Package config resolves the options of one CLI invocation and loads the
// user's host configuration.
//
// # Resolved Options
//
// ResolveOptions reads the entry markdown, decodes its YAML headmatter into
// a SlidesConfig (missing keys keep their defaults), determines the
// installation topology, and resolves the client package root through the
// package resolver.
//
// The topology is taken from KOLIBRY_TOPOLOGY when it names "global" or
// "local". Otherwise the CLI root is compared against the global npm and
// Yarn package directories.
//
// # User Host Configuration
//
// LoadUserConfig merges the following sources, later ones winning:
//
//  1. <userRoot>/vite.config.json
//  2. <userRoot>/vite.config.jsonc
//  3. KOLIBRY_VITE_CONFIG file
//  4. KOLIBRY_VITE_CONFIG_CONTENT inline JSON
//  5. KOLIBRY_PORT and KOLIBRY_HOST
//
// Files may contain comments (tidwall/jsonc) and the placeholders
// {env:VAR_NAME} and {file:path}. File paths are resolved relative to the
// config file's directory; "~/" expands to $HOME.
//
// # Paths
//
// CLIRoot returns the directory the CLI is installed in. KOLIBRY_CLI_ROOT
// overrides it, which is how a development checkout points the binary at a
// node_modules tree.
package config
