package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"touchdeck/internal/app"
)

// runNoTUI disables the terminal renderer. The tap pipeline still runs,
// driven directly from the decoder stream; useful under systemd on the
// wrist unit where no terminal is attached.
var runNoTUI bool

// runDebug enables verbose logging across the application.
var runDebug bool

// runConfigPath loads configuration from a single file instead of the
// layered user/project lookup.
var runConfigPath string

// runInputPath overrides the configured touch event stream path.
var runInputPath string

// runCmd defines the run command structure. This is the main command of
// touchdeck: it loads the zone layout, starts the supervisor, and serves
// taps until quit.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the control surface",
	Long: `Starts the touchdeck control surface. It can run in two modes:

1. Interactive TUI Mode (default):
   - Renders the zone grid in the terminal and mirrors taps from the
     touch panel. Zones can also be tapped with the mouse or the 1-9 keys.

2. Headless Mode (using --no-tui flag):
   - No renderer; decoded touch events are read from the configured
     stream and dispatched directly. This is the mode the wrist unit's
     systemd service runs.

Configuration:
  touchdeck loads configuration from ~/.config/touchdeck/config.yaml and
  .touchdeck/config.yaml in the current directory, or from a single file
  given with --config.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// runRun is the main entry point for the run command
func runRun(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(runNoTUI, runDebug)
	cfg.ConfigPath = runConfigPath
	cfg.InputPath = runInputPath

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runNoTUI, "no-tui", false, "Disable the TUI and dispatch taps headless")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable general debug logging")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Load configuration from a single file")
	runCmd.Flags().StringVar(&runInputPath, "input", "", "Touch event stream path (FIFO, or - for stdin)")
}
