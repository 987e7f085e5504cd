package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/tripwise/flight-planner/internal/models"
)

// AirportStore is the subset of database.AirportRepository the services use
type AirportStore interface {
	GetByCode(ctx context.Context, code string) (*models.Airport, error)
	ListAll(ctx context.Context) ([]models.Airport, error)
	ListByCountry(ctx context.Context, country string) ([]models.Airport, error)
}

// AirlineStore is the subset of database.AirlineRepository the API uses
type AirlineStore interface {
	GetByCode(ctx context.Context, code string) (*models.Airline, error)
	ListActive(ctx context.Context) ([]models.Airline, error)
}

// RouteStore is the subset of database.RouteRepository the services use
type RouteStore interface {
	GetByKey(ctx context.Context, source, destination, airline string) (*models.Route, error)
	ListFrom(ctx context.Context, source string) ([]models.Route, error)
	ListUnpriced(ctx context.Context) ([]models.Route, error)
	UpdateSchedule(ctx context.Context, route *models.Route) error
}

// TripStore is the subset of database.TripRepository the services use
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FlightLegStore is the subset of database.FlightLegRepository the services use
type FlightLegStore interface {
	Create(ctx context.Context, leg *models.FlightLeg) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.FlightLeg, error)
	Delete(ctx context.Context, tripID, legID uuid.UUID) error
}
