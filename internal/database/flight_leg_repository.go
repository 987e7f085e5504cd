package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tripwise/flight-planner/internal/models"
)

const flightLegColumns = `id, trip_id, source_code, destination_code, airline_code,
		flight_date, departure_minutes, booking_reference, seat, notes, created_at`

// FlightLegRepository handles database operations for the flight_legs table
type FlightLegRepository struct {
	db DB
}

// NewFlightLegRepository creates a new FlightLegRepository
func NewFlightLegRepository(db DB) *FlightLegRepository {
	return &FlightLegRepository{db: db}
}

// Create inserts a new leg, assigning its ID and creation time
func (r *FlightLegRepository) Create(ctx context.Context, leg *models.FlightLeg) error {
	if leg.ID == uuid.Nil {
		leg.ID = uuid.New()
	}
	leg.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO flight_legs (` + flightLegColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		leg.ID, leg.TripID, leg.SourceCode, leg.DestinationCode, leg.AirlineCode,
		leg.FlightDate, leg.DepartureMinutes, leg.BookingReference, leg.Seat, leg.Notes, leg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create flight leg: %w", err)
	}
	return nil
}

// GetByID retrieves a leg by ID
func (r *FlightLegRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FlightLeg, error) {
	query := `SELECT ` + flightLegColumns + ` FROM flight_legs WHERE id = $1`

	leg := &models.FlightLeg{}
	if err := r.db.GetContext(ctx, leg, query, id); err != nil {
		return nil, fmt.Errorf("failed to fetch flight leg: %w", err)
	}
	return leg, nil
}

// ListByTrip retrieves a trip's legs in departure order
func (r *FlightLegRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.FlightLeg, error) {
	query := `SELECT ` + flightLegColumns + `
		FROM flight_legs
		WHERE trip_id = $1
		ORDER BY flight_date, departure_minutes`

	legs := []models.FlightLeg{}
	if err := r.db.SelectContext(ctx, &legs, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list flight legs: %w", err)
	}
	return legs, nil
}

// Delete removes a leg from its trip
func (r *FlightLegRepository) Delete(ctx context.Context, tripID, legID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM flight_legs WHERE id = $1 AND trip_id = $2`, legID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete flight leg: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("flight leg %s: %w", legID, sql.ErrNoRows)
	}
	return nil
}
