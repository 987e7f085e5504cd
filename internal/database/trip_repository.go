package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tripwise/flight-planner/internal/models"
)

// TripRepository handles database operations for the trips table
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a new trip, assigning its ID and timestamps
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	now := time.Now().UTC()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	query := `
		INSERT INTO trips (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		trip.ID, trip.UserID, trip.Name, trip.Description, trip.CreatedAt, trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	trip := &models.Trip{}
	if err := r.db.GetContext(ctx, trip, query, id); err != nil {
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	return trip, nil
}

// ListByUser retrieves a user's trips, newest first
func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	trips := []models.Trip{}
	if err := r.db.SelectContext(ctx, &trips, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// Delete removes a trip; its legs are removed by ON DELETE CASCADE
func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("trip %s: %w", id, sql.ErrNoRows)
	}
	return nil
}
