package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tripwise/flight-planner/internal/database"
	"github.com/tripwise/flight-planner/internal/services"
)

var backfillSeed uint64

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Synthesize schedules for every unpriced route",
	Long: `Gives every route without a price a synthesized duration, price and set
of daily departures. Interrupting the run keeps the routes already written.`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().Uint64Var(&backfillSeed, "seed", 0, "Random seed (overrides SCHEDULE_SEED; 0 keeps the configured value)")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	scheduleCfg := cfg.Schedule
	if backfillSeed != 0 {
		scheduleCfg.Seed = backfillSeed
	}

	svc := services.NewScheduleBackfillService(
		database.NewRouteRepository(db),
		database.NewAirportRepository(db),
		scheduleCfg,
		newLogger(),
	)

	ctx, stop := signalContext()
	defer stop()

	out := cmd.OutOrStdout()
	result, err := svc.Run(ctx, func(done, total int) {
		fmt.Fprintf(out, "\r%d/%d routes", done, total)
	})
	fmt.Fprintln(out)
	if result != nil {
		fmt.Fprintf(out, "Synthesized %d of %d routes in %v\n", result.Synthesized, result.Total, result.Duration)
		fmt.Fprintf(out, "Skipped: %d with unknown airports, %d too short\n",
			result.SkippedMissingAirport, result.SkippedShortDistance)
	}
	return err
}
