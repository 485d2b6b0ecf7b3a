// Package commands provides the CLI commands for Kolibry.
package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kolibry/kolibry/internal/logging"
	"github.com/kolibry/kolibry/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "kolibry",
	Short: "Kolibry - presentation slides for developers",
	Long: `Kolibry turns a markdown file into a slide deck served by a
development host with hot reload.

Run 'kolibry dev slides.md' to start the development server, or
'kolibry config slides.md' to print the host configuration it uses.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := logging.DefaultConfig()
		cfg.Level = logging.ParseLevel(logLevel)
		cfg.Pretty = printLogs
		cfg.NoColor = noColor
		logging.Init(cfg)

		color.NoColor = color.NoColor || noColor
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("kolibry %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// entryArg returns the entry file argument, if any.
func entryArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// parseMode validates a --mode flag value.
func parseMode(s string) (types.Mode, error) {
	switch m := types.Mode(s); m {
	case types.ModeDev, types.ModeBuild, types.ModeExport:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (dev|build|export)", s)
}
