package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one logging pass over all configured routes",
	Long: `Execute a single sequential pass: for each configured route, check the
scheduling gate (active days, time window, interval cooldown) and, when due,
query the directions provider and append one record per returned alternative.

Intended to be invoked from cron or a cloud scheduler.

Example:
  commutetrack run --config ./commutetrack.yaml`,
	RunE: runPass,
}

func init() {
	runCmd.Flags().StringP("config", "c", "commutetrack.yaml", "Path to configuration file")
}

func runPass(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	rt, err := newRuntime(configPath)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := setupSignalHandler()

	report, err := rt.tracker.Run(ctx)
	if err != nil {
		return fmt.Errorf("pass interrupted: %w", err)
	}

	for _, res := range report.Results {
		if res.Error != "" {
			logger.Warn("route did not complete",
				"route", res.Route, "error", res.Error)
		}
	}

	logger.Info("pass finished",
		"pass_id", report.PassID,
		"records_appended", report.RecordsAppended(),
		"failed_routes", report.FailedRoutes())
	return nil
}
