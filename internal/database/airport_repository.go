package database

import (
	"context"
	"fmt"

	"github.com/tripwise/flight-planner/internal/models"
)

const airportColumns = `code, icao, name, city, country, latitude, longitude,
		altitude, timezone_offset, dst, tz_name`

// AirportRepository handles database operations for the airports table
type AirportRepository struct {
	db DB
}

// NewAirportRepository creates a new AirportRepository
func NewAirportRepository(db DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// GetByCode retrieves an airport by IATA code.
// Returns an error wrapping sql.ErrNoRows when the airport does not exist.
func (r *AirportRepository) GetByCode(ctx context.Context, code string) (*models.Airport, error) {
	query := `SELECT ` + airportColumns + ` FROM airports WHERE code = $1`

	airport := &models.Airport{}
	if err := r.db.GetContext(ctx, airport, query, code); err != nil {
		return nil, fmt.Errorf("failed to fetch airport %s: %w", code, err)
	}
	return airport, nil
}

// ListAll retrieves every airport
func (r *AirportRepository) ListAll(ctx context.Context) ([]models.Airport, error) {
	query := `SELECT ` + airportColumns + ` FROM airports ORDER BY code`

	airports := []models.Airport{}
	if err := r.db.SelectContext(ctx, &airports, query); err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}
	return airports, nil
}

// ListByCountry retrieves the airports of one country
func (r *AirportRepository) ListByCountry(ctx context.Context, country string) ([]models.Airport, error) {
	query := `SELECT ` + airportColumns + ` FROM airports WHERE country = $1 ORDER BY code`

	airports := []models.Airport{}
	if err := r.db.SelectContext(ctx, &airports, query, country); err != nil {
		return nil, fmt.Errorf("failed to list airports for %s: %w", country, err)
	}
	return airports, nil
}
