package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tripwise/flight-planner/internal/itinerary"
)

// RepositoryLookup resolves routes and airports for the itinerary validator
// from the database. Airports are memoized, including misses, so one
// instance should serve a single validation pass and is not safe for
// concurrent use.
type RepositoryLookup struct {
	routes   RouteStore
	airports AirportStore
	cache    map[string]*itinerary.Airport
}

// NewRepositoryLookup creates a lookup for one validation pass
func NewRepositoryLookup(routes RouteStore, airports AirportStore) *RepositoryLookup {
	return &RepositoryLookup{
		routes:   routes,
		airports: airports,
		cache:    make(map[string]*itinerary.Airport),
	}
}

// LookupRoute implements itinerary.Lookup
func (l *RepositoryLookup) LookupRoute(ctx context.Context, source, destination, airline string) (*itinerary.RouteSchedule, error) {
	route, err := l.routes.GetByKey(ctx, source, destination, airline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return route.ToItinerary(), nil
}

// LookupAirport implements itinerary.Lookup
func (l *RepositoryLookup) LookupAirport(ctx context.Context, code string) (*itinerary.Airport, error) {
	if airport, ok := l.cache[code]; ok {
		return airport, nil
	}

	airport, err := l.airports.GetByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		l.cache[code] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	l.cache[code] = airport.ToItinerary()
	return l.cache[code], nil
}

// routeDuration returns the scheduled duration of a leg's route, or 0 when
// the route is unknown
func (l *RepositoryLookup) routeDuration(ctx context.Context, source, destination, airline string) (int, error) {
	route, err := l.LookupRoute(ctx, source, destination, airline)
	if err != nil || route == nil {
		return 0, err
	}
	return route.DurationMinutes, nil
}
