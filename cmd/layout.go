package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"touchdeck/internal/cli"
	"touchdeck/internal/config"
)

var (
	layoutOutputFormat string
	layoutConfigPath   string
)

// layoutCmd represents the layout command
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect the zone layout",
	Long: `Inspect the zone layout the control surface will serve.

The layout divides the touch panel into rectangular zones, each bound to
a managed app or to the shutdown action.

Available commands:
  show      - Print the resolved zone layout
  validate  - Check the configuration and report the first problem`,
}

// layoutShowCmd prints the resolved zones
var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved zone layout",
	Long: `Print the zone layout after layering defaults, user, and project
configuration, in the order zones are hit-tested.`,
	RunE: runLayoutShow,
}

// layoutValidateCmd checks the configuration
var layoutValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load and validate the configuration without starting the surface.
Exits non-zero with a descriptive error when the layout is unusable:
out-of-bounds zones, duplicate ids, dangling app references, overlaps.`,
	RunE: runLayoutValidate,
}

func loadLayoutConfig() (config.TouchdeckConfig, error) {
	if layoutConfigPath != "" {
		return config.LoadConfigFromPath(layoutConfigPath)
	}
	return config.LoadConfig()
}

func runLayoutShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadLayoutConfig()
	if err != nil {
		return err
	}

	printer, err := cli.NewPrinter(layoutOutputFormat, false)
	if err != nil {
		return err
	}

	records := make([]map[string]interface{}, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		target := z.App
		if z.Quit {
			target = "(quit)"
		}
		records = append(records, map[string]interface{}{
			"id":    z.ID,
			"label": z.Label,
			"app":   target,
			"rect":  fmt.Sprintf("%dx%d+%d+%d", z.Rect.W, z.Rect.H, z.Rect.X, z.Rect.Y),
		})
	}
	return printer.List([]string{"id", "label", "app", "rect"}, records)
}

func runLayoutValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadLayoutConfig()
	if err != nil {
		return err
	}
	fmt.Printf("Configuration valid: %d zones, %d apps, %dx%d display\n",
		len(cfg.Zones), len(cfg.Apps), cfg.Display.Width, cfg.Display.Height)
	return nil
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutValidateCmd)

	layoutCmd.PersistentFlags().StringVarP(&layoutOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	layoutCmd.PersistentFlags().StringVar(&layoutConfigPath, "config", "", "Load configuration from a single file")
}
