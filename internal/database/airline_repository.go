package database

import (
	"context"
	"fmt"

	"github.com/tripwise/flight-planner/internal/models"
)

// AirlineRepository handles database operations for the airlines table
type AirlineRepository struct {
	db DB
}

// NewAirlineRepository creates a new AirlineRepository
func NewAirlineRepository(db DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// GetByCode retrieves an airline by IATA code
func (r *AirlineRepository) GetByCode(ctx context.Context, code string) (*models.Airline, error) {
	query := `
		SELECT code, icao, name, callsign, country, active
		FROM airlines
		WHERE code = $1
	`

	airline := &models.Airline{}
	if err := r.db.GetContext(ctx, airline, query, code); err != nil {
		return nil, fmt.Errorf("failed to fetch airline %s: %w", code, err)
	}
	return airline, nil
}

// ListActive retrieves all active airlines
func (r *AirlineRepository) ListActive(ctx context.Context) ([]models.Airline, error) {
	query := `
		SELECT code, icao, name, callsign, country, active
		FROM airlines
		WHERE active = true
		ORDER BY name
	`

	airlines := []models.Airline{}
	if err := r.db.SelectContext(ctx, &airlines, query); err != nil {
		return nil, fmt.Errorf("failed to list airlines: %w", err)
	}
	return airlines, nil
}
