package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/itinerary"
	"github.com/tripwise/flight-planner/internal/models"
)

// ItineraryService manages trips and checks whether their flights can be flown
type ItineraryService struct {
	trips    TripStore
	legs     FlightLegStore
	routes   RouteStore
	airports AirportStore
	logger   *logrus.Logger
}

// NewItineraryService creates a new ItineraryService
func NewItineraryService(
	trips TripStore,
	legs FlightLegStore,
	routes RouteStore,
	airports AirportStore,
	logger *logrus.Logger,
) *ItineraryService {
	return &ItineraryService{
		trips:    trips,
		legs:     legs,
		routes:   routes,
		airports: airports,
		logger:   logger,
	}
}

// TripDetails is a trip together with its legs in departure order
type TripDetails struct {
	Trip *models.Trip       `json:"trip"`
	Legs []models.FlightLeg `json:"legs"`
}

// LegDiagnostic pairs a leg with the outcome of validating it
type LegDiagnostic struct {
	Leg        models.FlightLeg     `json:"leg"`
	Departure  time.Time            `json:"departure"`
	Diagnostic itinerary.Diagnostic `json:"diagnostic"`
}

// TripItinerary is the validation report for a whole trip
type TripItinerary struct {
	Trip     *models.Trip    `json:"trip"`
	Legs     []LegDiagnostic `json:"legs"`
	Errors   int             `json:"errors"`
	Warnings int             `json:"warnings"`
	Feasible bool            `json:"feasible"`
}

// CreateTrip creates an empty trip for a user
func (s *ItineraryService) CreateTrip(ctx context.Context, userID uuid.UUID, req *models.CreateTripRequest) (*models.Trip, error) {
	trip := &models.Trip{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"user_id": userID,
	}).Info("Trip created")
	return trip, nil
}

// ListTrips returns a user's trips
func (s *ItineraryService) ListTrips(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	return s.trips.ListByUser(ctx, userID)
}

// GetTrip returns a trip owned by userID with its legs
func (s *ItineraryService) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*TripDetails, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	legs, err := s.sortedLegs(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &TripDetails{Trip: trip, Legs: legs}, nil
}

// DeleteTrip removes a trip and its legs
func (s *ItineraryService) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	err := s.trips.Delete(ctx, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTripNotFound
	}
	return err
}

// ValidateTrip runs the itinerary validator over a trip's legs.
// Infeasible itineraries are reported through diagnostics; an error means
// the trip could not be loaded or validated at all.
func (s *ItineraryService) ValidateTrip(ctx context.Context, userID, tripID uuid.UUID) (*TripItinerary, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	legs, err := s.sortedLegs(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnableToValidate, err)
	}

	views := make([]itinerary.FlightLeg, len(legs))
	for i := range legs {
		views[i] = legs[i].ToItinerary()
	}

	diagnostics, err := itinerary.Validate(ctx, views, NewRepositoryLookup(s.routes, s.airports))
	if err != nil {
		s.logger.WithError(err).WithField("trip_id", tripID).Error("Itinerary validation failed")
		return nil, fmt.Errorf("%w: %w", ErrUnableToValidate, err)
	}

	result := &TripItinerary{
		Trip: trip,
		Legs: make([]LegDiagnostic, len(legs)),
	}
	for i, d := range diagnostics {
		result.Legs[i] = LegDiagnostic{
			Leg:        legs[i],
			Departure:  legs[i].Departure(),
			Diagnostic: d,
		}
		switch d.Severity {
		case itinerary.SeverityError:
			result.Errors++
		case itinerary.SeverityWarning:
			result.Warnings++
		}
	}
	result.Feasible = result.Errors == 0

	s.logger.WithFields(logrus.Fields{
		"trip_id":  tripID,
		"legs":     len(legs),
		"errors":   result.Errors,
		"warnings": result.Warnings,
	}).Debug("Itinerary validated")

	return result, nil
}

// AddLeg appends a flight to a trip. The flight is rejected with a
// *LegConflictError if it overlaps any flight already on the trip; legs on
// unknown routes count as zero-length.
func (s *ItineraryService) AddLeg(ctx context.Context, userID, tripID uuid.UUID, leg *models.FlightLeg) (*models.FlightLeg, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	existing, err := s.legs.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	lookup := NewRepositoryLookup(s.routes, s.airports)
	minutes, err := lookup.routeDuration(ctx, leg.SourceCode, leg.DestinationCode, leg.AirlineCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve route duration: %w", err)
	}
	duration := time.Duration(minutes) * time.Minute

	for _, other := range existing {
		otherMinutes, err := lookup.routeDuration(ctx, other.SourceCode, other.DestinationCode, other.AirlineCode)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve route duration: %w", err)
		}
		if itinerary.Overlaps(leg.Departure(), duration, other.Departure(), time.Duration(otherMinutes)*time.Minute) {
			return nil, &LegConflictError{Existing: other}
		}
	}

	leg.TripID = tripID
	if err := s.legs.Create(ctx, leg); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"leg_id":  leg.ID,
		"route":   leg.SourceCode + "-" + leg.DestinationCode + "-" + leg.AirlineCode,
	}).Info("Flight leg added")
	return leg, nil
}

// RemoveLeg deletes one leg from a trip
func (s *ItineraryService) RemoveLeg(ctx context.Context, userID, tripID, legID uuid.UUID) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	err := s.legs.Delete(ctx, tripID, legID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrLegNotFound
	}
	return err
}

func (s *ItineraryService) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, ErrForbidden
	}
	return trip, nil
}

// sortedLegs returns a trip's legs ordered by absolute departure instant
func (s *ItineraryService) sortedLegs(ctx context.Context, tripID uuid.UUID) ([]models.FlightLeg, error) {
	legs, err := s.legs.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(legs, func(a, b models.FlightLeg) int {
		return a.Departure().Compare(b.Departure())
	})
	return legs, nil
}
