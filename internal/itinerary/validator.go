// Package itinerary checks whether a trip's booked flights can actually be
// flown and synthesizes placeholder schedules for routes without one.
package itinerary

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"
)

const (
	minInternationalLayover = 2 * time.Hour
	minDomesticLayover      = 30 * time.Minute
	maxTransferLayover      = 24 * time.Hour
	drivingSpeedKmh         = 100
)

// RouteSchedule is the published schedule of one airline between two airports
type RouteSchedule struct {
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	Airline         string `json:"airline"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int    `json:"price"`
	DepartureTimes  []int  `json:"departure_times"`
}

// Duration returns the scheduled flight time
func (r *RouteSchedule) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// Airport is the subset of airport data the validator needs
type Airport struct {
	Code     string   `json:"code"`
	Country  string   `json:"country"`
	Location GeoPoint `json:"location"`
}

// FlightLeg is one booked flight of a trip
type FlightLeg struct {
	Source           string    `json:"source"`
	Destination      string    `json:"destination"`
	Airline          string    `json:"airline"`
	Date             time.Time `json:"date"`
	DepartureMinutes int       `json:"departure_minutes"`
}

// Departure returns the absolute UTC take-off instant of the leg
func (l FlightLeg) Departure() time.Time {
	y, m, d := l.Date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(l.DepartureMinutes) * time.Minute)
}

// Lookup resolves routes and airports for the validator.
// A nil result with a nil error means the record does not exist.
type Lookup interface {
	LookupRoute(ctx context.Context, source, destination, airline string) (*RouteSchedule, error)
	LookupAirport(ctx context.Context, code string) (*Airport, error)
}

// validationState is carried from one leg to the next
type validationState struct {
	previousLanding     *time.Time
	previousDestination *Airport
}

// Validate checks a trip's legs in order and returns one diagnostic per leg.
// Legs must be sorted by departure instant. Only lookup failures are
// returned as errors, in which case no diagnostics are returned.
func Validate(ctx context.Context, legs []FlightLeg, lookup Lookup) ([]Diagnostic, error) {
	diagnostics := make([]Diagnostic, 0, len(legs))
	state := validationState{}

	for i, leg := range legs {
		next, diagnostic, err := step(ctx, state, leg, lookup)
		if err != nil {
			return nil, fmt.Errorf("failed to validate leg %d (%s-%s %s): %w",
				i, leg.Source, leg.Destination, leg.Airline, err)
		}
		state = next
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics, nil
}

// step validates a single leg against the carried state
func step(ctx context.Context, state validationState, leg FlightLeg, lookup Lookup) (validationState, Diagnostic, error) {
	route, err := lookup.LookupRoute(ctx, leg.Source, leg.Destination, leg.Airline)
	if err != nil {
		return state, Diagnostic{}, err
	}
	if route == nil {
		return state, errorf(CodeRouteNotFound,
			"Route %s to %s on %s not in database", leg.Source, leg.Destination, leg.Airline), nil
	}

	source, err := lookup.LookupAirport(ctx, route.Source)
	if err != nil {
		return state, Diagnostic{}, err
	}
	if source == nil {
		return state, errorf(CodeSourceAirportNotFound,
			"Source airport %s not in database", route.Source), nil
	}

	destination, err := lookup.LookupAirport(ctx, route.Destination)
	if err != nil {
		return state, Diagnostic{}, err
	}
	if destination == nil {
		return state, errorf(CodeDestinationAirportNotFound,
			"Destination airport %s not in database", route.Destination), nil
	}

	if !slices.Contains(route.DepartureTimes, leg.DepartureMinutes) {
		nearest, ok := NearestDeparture(leg.DepartureMinutes, route.DepartureTimes)
		if !ok {
			return state, errorf(CodeNoScheduledFlights,
				"Route %s to %s on %s has no scheduled flights", route.Source, route.Destination, route.Airline), nil
		}
		return state, errorf(CodeDepartureNotScheduled,
			"No flight departs at %s on this route; the nearest departure is %s",
			FormatClock(leg.DepartureMinutes), FormatClock(nearest)), nil
	}

	departure := leg.Departure()
	landing := departure.Add(route.Duration())
	international := source.Country != destination.Country

	diagnostic := Diagnostic{}
	if state.previousLanding != nil {
		layover := departure.Sub(*state.previousLanding)
		diagnostic = checkConnection(layover, international, state.previousDestination, source)
	}

	return validationState{previousLanding: &landing, previousDestination: destination}, diagnostic, nil
}

// checkConnection grades the layover between the previous landing and this take-off
func checkConnection(layover time.Duration, international bool, previous, source *Airport) Diagnostic {
	switch {
	case layover < 0:
		return errorf(CodeOverlappingFlights,
			"This flight takes off before you land from your previous flight")
	case international && layover < minInternationalLayover:
		return warningf(CodeShortInternationalLayover,
			"Less than 2 hours between connections for an international flight")
	case !international && layover < minDomesticLayover:
		return warningf(CodeShortDomesticLayover,
			"Less than 30 minutes between connections for a domestic flight")
	case previous != nil && previous.Code != source.Code && layover < maxTransferLayover:
		km := DistanceKm(previous.Location, source.Location)
		driveHours := math.Floor(km / drivingSpeedKmh)
		if layover < time.Duration(driveHours)*time.Hour {
			return warningf(CodeMissingConnection,
				"You land at %s but take off from %s, %.0f km away; you may be missing a connecting flight",
				previous.Code, source.Code, km)
		}
	}
	return Diagnostic{}
}
