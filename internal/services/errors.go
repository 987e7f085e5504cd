package services

import (
	"errors"
	"fmt"

	"github.com/tripwise/flight-planner/internal/models"
)

var (
	ErrTripNotFound          = errors.New("trip not found")
	ErrLegNotFound           = errors.New("flight leg not found")
	ErrForbidden             = errors.New("trip belongs to another user")
	ErrRouteNotFound         = errors.New("route not found")
	ErrAirportNotFound       = errors.New("airport not found")
	ErrRouteAlreadyScheduled = errors.New("route already has a schedule")
	ErrRouteTooShort         = errors.New("route endpoints are too close to synthesize a schedule")
	ErrBackfillRunning       = errors.New("schedule backfill already running")

	// ErrUnableToValidate wraps infrastructure failures hit while validating an itinerary
	ErrUnableToValidate = errors.New("unable to validate itinerary")
)

// LegConflictError is returned when a new leg overlaps a leg already on the trip
type LegConflictError struct {
	Existing models.FlightLeg
}

func (e *LegConflictError) Error() string {
	return fmt.Sprintf("flight overlaps %s to %s on %s departing %s %s",
		e.Existing.SourceCode, e.Existing.DestinationCode, e.Existing.AirlineCode,
		e.Existing.FlightDate.Format("2006-01-02"), e.Existing.DepartureClock())
}
