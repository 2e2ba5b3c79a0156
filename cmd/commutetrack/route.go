package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nward/commutetrack/internal/config"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage routes in the configuration",
	Long: `Manage tracked routes in the commutetrack configuration file.

Subcommands:
  add     - Add a new route to the configuration
  list    - List all configured routes
  remove  - Remove a route from the configuration

Examples:
  commutetrack route add "Home→Work" --origin "123 Oak St, Chicago IL" --destination "456 Elm St, Chicago IL"
  commutetrack route list --config commutetrack.yaml
  commutetrack route remove "Home→Work" --config commutetrack.yaml`,
}

var addRouteCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new route to the configuration",
	Long: `Add a tracked route to the configuration file, creating the file with
defaults when it does not exist yet.

Examples:
  # Track at any time of day, default 15 minute cooldown
  commutetrack route add "Home→Work" \
    --origin "123 Oak St, Chicago IL" \
    --destination "456 Elm St, Chicago IL"

  # Weekday morning commute only, checked at most every 30 minutes
  commutetrack route add "Home→Work AM" \
    --origin "123 Oak St, Chicago IL" \
    --destination "456 Elm St, Chicago IL" \
    --interval 30 \
    --days Monday,Tuesday,Wednesday,Thursday,Friday \
    --start 07:00 --end 09:30`,
	RunE: runAddRoute,
	Args: cobra.ExactArgs(1),
}

var listRoutesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured routes",
	RunE:  runListRoutes,
}

var removeRouteCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a route from the configuration",
	RunE:  runRemoveRoute,
	Args:  cobra.ExactArgs(1),
}

func init() {
	routeCmd.AddCommand(addRouteCmd)
	routeCmd.AddCommand(listRoutesCmd)
	routeCmd.AddCommand(removeRouteCmd)

	routeCmd.PersistentFlags().StringP("config", "c", "commutetrack.yaml", "Path to configuration file")

	addRouteCmd.Flags().String("origin", "", "Origin address or lat/lng (required)")
	addRouteCmd.Flags().String("destination", "", "Destination address or lat/lng (required)")
	addRouteCmd.Flags().Float64("interval", 0, "Minimum minutes between runs (0 = config default)")
	addRouteCmd.Flags().StringSlice("days", nil, "Active weekday names (default: every day)")
	addRouteCmd.Flags().String("start", "", "Window start, HH:MM")
	addRouteCmd.Flags().String("end", "", "Window end, HH:MM")
	addRouteCmd.MarkFlagRequired("origin")
	addRouteCmd.MarkFlagRequired("destination")
}

func runAddRoute(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	origin, _ := cmd.Flags().GetString("origin")
	destination, _ := cmd.Flags().GetString("destination")
	interval, _ := cmd.Flags().GetFloat64("interval")
	days, _ := cmd.Flags().GetStringSlice("days")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	route := config.Route{
		Name:            args[0],
		Origin:          origin,
		Destination:     destination,
		IntervalMinutes: interval,
		Days:            days,
		Start:           start,
		End:             end,
	}

	warnings, err := config.AddRoute(configPath, route)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("failed to add route: %w", err)
	}

	fmt.Printf("Route %q added to %s\n", route.Name, configPath)
	return nil
}

func runListRoutes(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, warnings, err := config.Load(configPath)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORIGIN\tDESTINATION\tINTERVAL")
	for _, route := range cfg.Routes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fm\n",
			route.Name, route.Origin, route.Destination, route.IntervalMinutes)
	}
	return w.Flush()
}

func runRemoveRoute(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	warnings, err := config.RemoveRoute(configPath, args[0])
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("failed to remove route: %w", err)
	}

	fmt.Printf("Route %q removed from %s\n", args[0], configPath)
	return nil
}
