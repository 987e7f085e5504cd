package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tripwise/flight-planner/internal/database"
	"github.com/tripwise/flight-planner/internal/services"
)

var validateTripID string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether a trip's flights can be flown",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateTripID, "trip", "", "Trip ID")
	validateCmd.MarkFlagRequired("trip")
}

func runValidate(cmd *cobra.Command, args []string) error {
	tripID, err := uuid.Parse(validateTripID)
	if err != nil {
		return fmt.Errorf("invalid trip ID: %w", err)
	}

	_, db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signalContext()
	defer stop()

	trips := database.NewTripRepository(db)
	trip, err := trips.GetByID(ctx, tripID)
	if err != nil {
		return err
	}

	svc := services.NewItineraryService(
		trips,
		database.NewFlightLegRepository(db),
		database.NewRouteRepository(db),
		database.NewAirportRepository(db),
		newLogger(),
	)

	// operators act as the trip's owner
	result, err := svc.ValidateTrip(ctx, trip.UserID, tripID)
	if errors.Is(err, services.ErrUnableToValidate) {
		return fmt.Errorf("trip %s could not be validated: %w", tripID, err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d legs)\n\n", result.Trip.Name, len(result.Legs))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDEPARTURE\tROUTE\tSEVERITY\tMESSAGE")
	for i, leg := range result.Legs {
		fmt.Fprintf(w, "%d\t%s\t%s-%s %s\t%s\t%s\n",
			i+1,
			leg.Departure.Format("2006-01-02 15:04"),
			leg.Leg.SourceCode, leg.Leg.DestinationCode, leg.Leg.AirlineCode,
			leg.Diagnostic.Severity,
			leg.Diagnostic.Message,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	verdict := "feasible"
	if !result.Feasible {
		verdict = "NOT feasible"
	}
	fmt.Fprintf(out, "\n%s: %d errors, %d warnings\n", verdict, result.Errors, result.Warnings)
	return nil
}
