package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tripwise/flight-planner/internal/models"
)

const routeColumns = `id, source_code, destination_code, airline_code, codeshare,
		stops, equipment, duration_minutes, price, departure_times`

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// GetByKey retrieves the route an airline flies between two airports
func (r *RouteRepository) GetByKey(ctx context.Context, source, destination, airline string) (*models.Route, error) {
	query := `SELECT ` + routeColumns + `
		FROM routes
		WHERE source_code = $1 AND destination_code = $2 AND airline_code = $3`

	route := &models.Route{}
	if err := r.db.GetContext(ctx, route, query, source, destination, airline); err != nil {
		return nil, fmt.Errorf("failed to fetch route %s-%s-%s: %w", source, destination, airline, err)
	}
	return route, nil
}

// ListFrom retrieves all routes departing an airport
func (r *RouteRepository) ListFrom(ctx context.Context, source string) ([]models.Route, error) {
	query := `SELECT ` + routeColumns + `
		FROM routes
		WHERE source_code = $1
		ORDER BY destination_code, airline_code`

	routes := []models.Route{}
	if err := r.db.SelectContext(ctx, &routes, query, source); err != nil {
		return nil, fmt.Errorf("failed to list routes from %s: %w", source, err)
	}
	return routes, nil
}

// ListUnpriced retrieves routes whose schedule has not been set (price = 0)
func (r *RouteRepository) ListUnpriced(ctx context.Context) ([]models.Route, error) {
	query := `SELECT ` + routeColumns + `
		FROM routes
		WHERE price = 0
		ORDER BY id`

	routes := []models.Route{}
	if err := r.db.SelectContext(ctx, &routes, query); err != nil {
		return nil, fmt.Errorf("failed to list unpriced routes: %w", err)
	}
	return routes, nil
}

// UpdateSchedule persists a route's duration, price and departure times
func (r *RouteRepository) UpdateSchedule(ctx context.Context, route *models.Route) error {
	query := `
		UPDATE routes
		SET duration_minutes = $1, price = $2, departure_times = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		route.DurationMinutes, route.Price, route.DepartureTimes, route.ID)
	if err != nil {
		return fmt.Errorf("failed to update route schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("route %d: %w", route.ID, sql.ErrNoRows)
	}
	return nil
}
