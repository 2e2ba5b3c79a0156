package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nward/commutetrack/internal/config"
	"github.com/nward/commutetrack/internal/scheduler"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate a commutetrack configuration file without running a
pass. Checks YAML syntax, timezone, store driver, the serve-mode schedule,
and every route's required fields, day names, and time window.

Example:
  commutetrack validate --config ./commutetrack.yaml`,
	RunE: validateConfig,
}

func init() {
	validateCmd.Flags().StringP("config", "c", "commutetrack.yaml", "Path to configuration file")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, warnings, err := config.Load(configPath)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	if err := scheduler.ValidateSchedule(cfg.Defaults.Schedule); err != nil {
		return fmt.Errorf("invalid serve schedule: %w", err)
	}

	fmt.Printf("Configuration is valid: %d route(s), timezone %s, store %s (%s)\n",
		len(cfg.Routes), cfg.Defaults.Timezone, cfg.Store.Driver, cfg.Store.Path)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORIGIN\tDESTINATION\tINTERVAL\tDAYS\tWINDOW")
	for _, route := range cfg.Routes {
		days := "every day"
		if len(route.Days) > 0 {
			days = fmt.Sprintf("%v", route.Days)
		}
		window := "-"
		if route.Window != nil {
			window = fmt.Sprintf("%s-%s", route.Window.Start, route.Window.End)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fm\t%s\t%s\n",
			route.Name, route.Origin, route.Destination,
			route.IntervalMinutes, days, window)
	}
	return w.Flush()
}
