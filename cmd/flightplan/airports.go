package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tripwise/flight-planner/internal/database"
	"github.com/tripwise/flight-planner/internal/services"
)

var nearbyLimit int

var distanceCmd = &cobra.Command{
	Use:   "distance <from> <to>",
	Short: "Great-circle distance between two airports",
	Args:  cobra.ExactArgs(2),
	RunE:  runDistance,
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby <code>",
	Short: "List the airports closest to an airport",
	Args:  cobra.ExactArgs(1),
	RunE:  runNearby,
}

func init() {
	nearbyCmd.Flags().IntVarP(&nearbyLimit, "limit", "n", 5, "Number of airports to list")
}

func runDistance(cmd *cobra.Command, args []string) error {
	_, db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signalContext()
	defer stop()

	// an unbuilt index resolves codes straight from the database
	index := services.NewAirportIndexService(database.NewAirportRepository(db), newLogger())

	from, to := strings.ToUpper(args[0]), strings.ToUpper(args[1])
	km, err := index.Distance(ctx, from, to)
	if err != nil {
		return fmt.Errorf("%s-%s: %w", from, to, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s to %s: %.1f km\n", from, to, km)
	return nil
}

func runNearby(cmd *cobra.Command, args []string) error {
	_, db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signalContext()
	defer stop()

	index := services.NewAirportIndexService(database.NewAirportRepository(db), newLogger())
	if _, err := index.Rebuild(ctx); err != nil {
		return err
	}

	code := strings.ToUpper(args[0])
	nearby, err := index.Nearby(code, nearbyLimit)
	if err != nil {
		return fmt.Errorf("%s: %w", code, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCITY\tKM")
	for _, n := range nearby {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\n", n.Airport.Code, n.Airport.Name, n.Airport.City, n.DistanceKm)
	}
	return w.Flush()
}
