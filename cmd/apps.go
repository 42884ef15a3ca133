package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"touchdeck/internal/cli"
	"touchdeck/internal/config"
)

var (
	appsOutputFormat string
	appsConfigPath   string
)

// appsCmd represents the apps command
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the managed apps",
	Long: `List the external programs the supervisor can run, with their
command lines and grace periods. Apps marked exclusive hold the video
capture device and cannot run while another exclusive app is active.`,
	RunE: runAppsList,
}

func runAppsList(cmd *cobra.Command, args []string) error {
	var cfg config.TouchdeckConfig
	var err error
	if appsConfigPath != "" {
		cfg, err = config.LoadConfigFromPath(appsConfigPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	printer, err := cli.NewPrinter(appsOutputFormat, false)
	if err != nil {
		return err
	}

	records := make([]map[string]interface{}, 0, len(cfg.Apps))
	for _, a := range cfg.Apps {
		exclusive := ""
		if a.RequiresVideoDevice {
			exclusive = "video"
		}
		records = append(records, map[string]interface{}{
			"id":        a.ID,
			"command":   strings.Join(append([]string{a.Command}, a.Args...), " "),
			"grace":     a.GracePeriod.String(),
			"exclusive": exclusive,
		})
	}
	return printer.List([]string{"id", "command", "grace", "exclusive"}, records)
}

func init() {
	rootCmd.AddCommand(appsCmd)

	appsCmd.Flags().StringVarP(&appsOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	appsCmd.Flags().StringVar(&appsConfigPath, "config", "", "Load configuration from a single file")
}
