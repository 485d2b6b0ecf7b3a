package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kolibry/kolibry/pkg/types"
)

var (
	configMode   string
	configFormat string
)

var configCmd = &cobra.Command{
	Use:   "config [entry]",
	Short: "Print the host configuration for a deck",
	Long: `Print the host configuration Kolibry injects for a deck, merged with
the user's vite.config.json(c) and environment overrides.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&configMode, "mode", string(types.ModeDev), "Mode (dev|build|export)")
	configCmd.Flags().StringVar(&configFormat, "format", "json", "Output format (json|yaml)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(configMode)
	if err != nil {
		return err
	}

	d, err := assemble(afero.NewOsFs(), entryArg(args), mode)
	if err != nil {
		return err
	}

	inline, err := d.hostConfig(cmd.Context())
	if err != nil {
		return err
	}

	return writeConfig(cmd.OutOrStdout(), inline, configFormat)
}

func writeConfig(w io.Writer, inline types.InlineConfig, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(inline)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(map[string]any(inline))
	}
	return fmt.Errorf("unknown format %q (json|yaml)", format)
}
