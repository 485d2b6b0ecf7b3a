package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mode is the invocation mode of the CLI.
type Mode string

const (
	ModeDev    Mode = "dev"
	ModeBuild  Mode = "build"
	ModeExport Mode = "export"
)

// Topology describes where the running CLI is installed.
type Topology string

const (
	// TopologyLocal covers a local dev workspace and a CLI installed in the project.
	TopologyLocal Topology = "local"
	// TopologyGlobal is a CLI installed through a global package manager.
	TopologyGlobal Topology = "global"
)

// IsGlobal reports whether the CLI is globally installed.
func (t Topology) IsGlobal() bool {
	return t == TopologyGlobal
}

// ParseTopology parses "global" or "local". Anything else is reported as not ok.
func ParseTopology(s string) (Topology, bool) {
	switch Topology(s) {
	case TopologyGlobal:
		return TopologyGlobal, true
	case TopologyLocal:
		return TopologyLocal, true
	}
	return "", false
}

// ResolvedOptions is the immutable snapshot of user and CLI configuration
// for one server or build invocation.
type ResolvedOptions struct {
	Mode  Mode   `json:"mode"`
	Entry string `json:"entry"`

	// Absolute directories
	UserRoot   string `json:"userRoot"`
	CLIRoot    string `json:"cliRoot"`
	ClientRoot string `json:"clientRoot"`

	Topology Topology `json:"topology"`

	Data SlidesData `json:"data"`
}

// SlidesData holds what was read from the entry document.
type SlidesData struct {
	Config     SlidesConfig   `json:"config"`
	Headmatter map[string]any `json:"headmatter,omitempty"`
}

// SlidesConfig holds the feature toggles of a deck, decoded from headmatter.
type SlidesConfig struct {
	Title      string         `yaml:"title" json:"title"`
	CSS        string         `yaml:"css" json:"css"` // "unocss"|"none"
	RouterMode string         `yaml:"routerMode" json:"routerMode"`
	Drawings   DrawingsConfig `yaml:"drawings" json:"drawings"`
	Record     Toggle         `yaml:"record" json:"record"`
	Presenter  Toggle         `yaml:"presenter" json:"presenter"`
	Editor     *bool          `yaml:"editor" json:"editor,omitempty"`
	Fonts      FontOptions    `yaml:"fonts" json:"fonts"`
}

// DrawingsConfig configures the drawing overlay.
type DrawingsConfig struct {
	Enabled Toggle `yaml:"enabled" json:"enabled"`
	Persist Toggle `yaml:"persist" json:"persist"`
}

// Font providers.
const (
	FontProviderGoogle = "google"
	FontProviderNone   = "none"
)

// Headmatter defaults applied when a deck leaves them unset.
const (
	DefaultRouterMode = "history"
	DefaultCSS        = "unocss"
)

// DefaultFontWeights are loaded when fonts.weights is empty.
var DefaultFontWeights = []string{"200", "400", "600"}

// FontOptions configures web fonts loaded by the index document.
type FontOptions struct {
	Webfonts []string `yaml:"webfonts" json:"webfonts"`
	Weights  []string `yaml:"weights" json:"weights"`
	Italic   bool     `yaml:"italic" json:"italic"`
	Provider string   `yaml:"provider" json:"provider"` // "google"|"none"
}

// Toggle is a tri-state feature switch: on, off, or on only in one mode.
// The zero value is off.
type Toggle struct {
	on   bool
	mode Mode
}

// Enabled returns a Toggle that is on in every mode.
func Enabled() Toggle { return Toggle{on: true} }

// Disabled returns a Toggle that is off.
func Disabled() Toggle { return Toggle{} }

// OnlyIn returns a Toggle that is on only in the given mode.
func OnlyIn(mode Mode) Toggle { return Toggle{mode: mode} }

// IsTrue reports whether the toggle is literally true.
func (t Toggle) IsTrue() bool { return t.on }

// ActiveIn reports whether the feature is on for mode.
func (t Toggle) ActiveIn(mode Mode) bool {
	return t.on || (t.mode != "" && t.mode == mode)
}

func (t *Toggle) set(v any) {
	switch val := v.(type) {
	case bool:
		*t = Toggle{on: val}
	case string:
		*t = Toggle{mode: Mode(val)}
	default:
		*t = Toggle{}
	}
}

// UnmarshalYAML accepts a boolean or a mode name. Other values disable the toggle.
func (t *Toggle) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	t.set(v)
	return nil
}

// UnmarshalJSON accepts a boolean or a mode name. Other values disable the toggle.
func (t *Toggle) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.set(v)
	return nil
}

// MarshalJSON writes the toggle back as a boolean or a mode name.
func (t Toggle) MarshalJSON() ([]byte, error) {
	if t.mode != "" && !t.on {
		return json.Marshal(string(t.mode))
	}
	return json.Marshal(t.on)
}

// String implements fmt.Stringer.
func (t Toggle) String() string {
	if t.mode != "" && !t.on {
		return string(t.mode)
	}
	return fmt.Sprint(t.on)
}
