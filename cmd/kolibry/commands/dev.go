package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kolibry/kolibry/internal/logging"
	"github.com/kolibry/kolibry/internal/server"
	"github.com/kolibry/kolibry/internal/watcher"
	"github.com/kolibry/kolibry/pkg/types"
)

var (
	devPort int
	devHost string
	devMode string
)

var devCmd = &cobra.Command{
	Use:   "dev [entry]",
	Short: "Start the development server",
	Long: `Start the development server for a deck.

The entry defaults to slides.md. The server reloads the deck's
configuration whenever the entry file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDev,
}

func init() {
	devCmd.Flags().IntVarP(&devPort, "port", "p", 3030, "Port to listen on")
	devCmd.Flags().StringVar(&devHost, "host", "localhost", "Hostname to listen on")
	devCmd.Flags().StringVar(&devMode, "mode", string(types.ModeDev), "Mode (dev|build|export)")
}

func runDev(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(devMode)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	d, err := assemble(afero.NewOsFs(), entryArg(args), mode)
	if err != nil {
		return err
	}

	inline, err := d.hostConfig(ctx)
	if err != nil {
		return err
	}

	serverConfig := server.DefaultConfig().WithHostConfig(inline)
	if cmd.Flags().Changed("port") {
		serverConfig.Port = devPort
	}
	if cmd.Flags().Changed("host") {
		serverConfig.Host = devHost
	}
	serverConfig.Root = d.plugin.Options().UserRoot

	srv := server.New(serverConfig, d.fs, inline, d.plugin)

	w, err := watcher.New(d.plugin.Options().Entry, watcher.DefaultDebounce, func() {
		next, err := d.reload(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("reload failed")
			return
		}
		srv.SetHostConfig(next)
	})
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	printBanner(d, serverConfig)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printBanner(d *deck, cfg *server.Config) {
	opts := d.plugin.Options()
	dim := color.New(color.FgHiBlack)
	accent := color.New(color.FgCyan, color.Bold)

	line := func(label, value string) {
		fmt.Fprintf(os.Stderr, "  %s %s\n", dim.Sprintf("%-9s", label), value)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  %s %s\n", accent.Sprint("Kolibry"), dim.Sprint("v"+Version))
	fmt.Fprintln(os.Stderr)
	line("title", opts.Data.Config.Title)
	line("entry", opts.Entry)
	line("topology", string(opts.Topology))
	fmt.Fprintln(os.Stderr)
	line("slides", color.BlueString("http://%s/", cfg.Addr()))
	line("presenter", color.BlueString("http://%s/presenter/", cfg.Addr()))
	fmt.Fprintln(os.Stderr)
}
