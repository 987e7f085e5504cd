package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/config"
	"github.com/tripwise/flight-planner/internal/itinerary"
	"github.com/tripwise/flight-planner/internal/models"
)

const backfillLogInterval = 100

// BackfillResult summarizes one schedule backfill run
type BackfillResult struct {
	Total                 int           `json:"total"`
	Synthesized           int           `json:"synthesized"`
	SkippedMissingAirport int           `json:"skipped_missing_airport"`
	SkippedShortDistance  int           `json:"skipped_short_distance"`
	Duration              time.Duration `json:"duration"`
}

// ScheduleBackfillService gives unpriced routes a synthesized schedule
type ScheduleBackfillService struct {
	routes   RouteStore
	airports AirportStore
	cfg      config.ScheduleConfig
	logger   *logrus.Logger
	running  sync.Mutex
}

// NewScheduleBackfillService creates a new ScheduleBackfillService
func NewScheduleBackfillService(
	routes RouteStore,
	airports AirportStore,
	cfg config.ScheduleConfig,
	logger *logrus.Logger,
) *ScheduleBackfillService {
	return &ScheduleBackfillService{
		routes:   routes,
		airports: airports,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run synthesizes and stores a schedule for every route whose price is unset.
// progress, if non-nil, is called after each route. Only one run may be in
// flight at a time; a concurrent call returns ErrBackfillRunning. On
// cancellation the routes already written stay written.
func (s *ScheduleBackfillService) Run(ctx context.Context, progress func(done, total int)) (*BackfillResult, error) {
	if !s.running.TryLock() {
		return nil, ErrBackfillRunning
	}
	defer s.running.Unlock()

	start := time.Now()
	result := &BackfillResult{}

	routes, err := s.routes.ListUnpriced(ctx)
	if err != nil {
		return nil, err
	}
	result.Total = len(routes)

	s.logger.WithField("routes", result.Total).Info("Starting schedule backfill")

	lookup := NewRepositoryLookup(s.routes, s.airports)
	for i := range routes {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		route := &routes[i]
		distance, ok, err := s.routeDistance(ctx, lookup, route)
		if err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		switch {
		case !ok:
			result.SkippedMissingAirport++
			s.logger.WithField("route", route.Key()).Debug("Skipping route with unknown airport")
		case !itinerary.NeedsSynthesis(route.Price, distance):
			result.SkippedShortDistance++
			s.logger.WithFields(logrus.Fields{
				"route":       route.Key(),
				"distance_km": distance,
			}).Debug("Skipping route with coincident endpoints")
		default:
			if err := s.synthesize(ctx, route, distance); err != nil {
				result.Duration = time.Since(start)
				return result, err
			}
			result.Synthesized++
		}

		done := i + 1
		if progress != nil {
			progress(done, result.Total)
		}
		if done%backfillLogInterval == 0 {
			s.logger.WithFields(logrus.Fields{
				"done":  done,
				"total": result.Total,
			}).Info("Schedule backfill progress")
		}
	}

	result.Duration = time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"synthesized":             result.Synthesized,
		"skipped_missing_airport": result.SkippedMissingAirport,
		"skipped_short_distance":  result.SkippedShortDistance,
		"duration":                result.Duration.String(),
	}).Info("Schedule backfill complete")

	return result, nil
}

// SynthesizeRoute gives a single unpriced route a schedule on demand
func (s *ScheduleBackfillService) SynthesizeRoute(ctx context.Context, source, destination, airline string) (*models.Route, error) {
	route, err := s.routes.GetByKey(ctx, source, destination, airline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	if route.HasSchedule() {
		return route, ErrRouteAlreadyScheduled
	}

	distance, ok, err := s.routeDistance(ctx, NewRepositoryLookup(s.routes, s.airports), route)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAirportNotFound
	}
	if !itinerary.NeedsSynthesis(route.Price, distance) {
		return nil, ErrRouteTooShort
	}

	if err := s.synthesize(ctx, route, distance); err != nil {
		return nil, err
	}
	return route, nil
}

// routeDistance returns the great-circle length of a route; ok is false
// when either endpoint is unknown
func (s *ScheduleBackfillService) routeDistance(ctx context.Context, lookup *RepositoryLookup, route *models.Route) (float64, bool, error) {
	source, err := lookup.LookupAirport(ctx, route.SourceCode)
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve %s: %w", route.SourceCode, err)
	}
	destination, err := lookup.LookupAirport(ctx, route.DestinationCode)
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve %s: %w", route.DestinationCode, err)
	}
	if source == nil || destination == nil {
		return 0, false, nil
	}
	return itinerary.DistanceKm(source.Location, destination.Location), true, nil
}

func (s *ScheduleBackfillService) synthesize(ctx context.Context, route *models.Route, distance float64) error {
	rng := itinerary.NewRand(s.cfg.Seed, route.Key())
	route.ApplySchedule(itinerary.Synthesize(distance, s.cfg.CruiseSpeedKmh, s.cfg.CostPerHour, rng))

	if err := s.routes.UpdateSchedule(ctx, route); err != nil {
		return fmt.Errorf("failed to store schedule for %s: %w", route.Key(), err)
	}
	return nil
}
