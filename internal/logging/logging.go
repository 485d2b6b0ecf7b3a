// Package logging holds the process-wide zerolog logger of the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Level represents log levels.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// DefaultLevel is used until --log-level is parsed.
const DefaultLevel = WarnLevel

var levels = map[string]Level{
	"DEBUG":   DebugLevel,
	"INFO":    InfoLevel,
	"WARN":    WarnLevel,
	"WARNING": WarnLevel,
	"ERROR":   ErrorLevel,
}

// Config holds logger configuration.
type Config struct {
	Level  Level
	Output io.Writer
	// Pretty switches to console output for --print-logs.
	Pretty  bool
	NoColor bool
}

// DefaultConfig returns the configuration used before the CLI parses its flags.
func DefaultConfig() Config {
	return Config{Level: DefaultLevel, Output: os.Stderr}
}

// Init replaces the global logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: cfg.NoColor}
	}
	Logger = zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
}

// ParseLevel maps a --log-level value to a Level, ignoring case and
// surrounding space. Unknown names fall back to DefaultLevel.
func ParseLevel(name string) Level {
	if level, ok := levels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return level
	}
	return DefaultLevel
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event { return Logger.Debug() }

func Info() *zerolog.Event { return Logger.Info() }

func Warn() *zerolog.Event { return Logger.Warn() }

func Error() *zerolog.Event { return Logger.Error() }

func init() {
	Init(DefaultConfig())
}
