package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/flight-planner/internal/models"
)

func TestTripCreate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Success", func(t *testing.T) {
		userID := uuid.New()
		trip := &models.Trip{UserID: userID, Name: "Colombo to London"}

		mock.ExpectExec(`INSERT INTO trips`).
			WithArgs(sqlmock.AnyArg(), userID, "Colombo to London", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), trip)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, trip.ID)
		assert.False(t, trip.CreatedAt.IsZero())
		assert.Equal(t, trip.CreatedAt, trip.UpdatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO trips`).
			WillReturnError(fmt.Errorf("duplicate key"))

		err := repo.Create(context.Background(), &models.Trip{UserID: uuid.New(), Name: "x"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create trip")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripGetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepository(db)
	columns := []string{"id", "user_id", "name", "description", "created_at", "updated_at"}

	t.Run("Success", func(t *testing.T) {
		tripID := uuid.New()
		userID := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id = \$1`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(tripID.String(), userID.String(), "Honeymoon", "Maldives and back", now, now))

		trip, err := repo.GetByID(context.Background(), tripID)
		require.NoError(t, err)
		assert.Equal(t, tripID, trip.ID)
		assert.Equal(t, userID, trip.UserID)
		require.NotNil(t, trip.Description)
		assert.Equal(t, "Maldives and back", *trip.Description)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		tripID := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id = \$1`).
			WithArgs(tripID).
			WillReturnError(sql.ErrNoRows)

		trip, err := repo.GetByID(context.Background(), tripID)
		assert.Nil(t, trip)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepository(db)
	tripID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM trips WHERE id = \$1`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), tripID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM trips WHERE id = \$1`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), tripID), sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlightLegRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFlightLegRepository(db)
	tripID := uuid.New()
	columns := []string{
		"id", "trip_id", "source_code", "destination_code", "airline_code",
		"flight_date", "departure_minutes", "booking_reference", "seat", "notes", "created_at",
	}

	t.Run("Create", func(t *testing.T) {
		seat := "14A"
		leg := &models.FlightLeg{
			TripID:           tripID,
			SourceCode:       "CMB",
			DestinationCode:  "DXB",
			AirlineCode:      "UL",
			FlightDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			DepartureMinutes: 600,
			Seat:             &seat,
		}

		mock.ExpectExec(`INSERT INTO flight_legs`).
			WithArgs(sqlmock.AnyArg(), tripID, "CMB", "DXB", "UL", leg.FlightDate, 600,
				nil, "14A", nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), leg))
		assert.NotEqual(t, uuid.Nil, leg.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("List By Trip", func(t *testing.T) {
		now := time.Now().UTC()
		day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT (.+) FROM flight_legs WHERE trip_id = \$1 ORDER BY flight_date, departure_minutes`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.New().String(), tripID.String(), "CMB", "DXB", "UL", day, 600, nil, nil, nil, now).
				AddRow(uuid.New().String(), tripID.String(), "DXB", "LHR", "EK", day, 1170, "ABC123", nil, nil, now))

		legs, err := repo.ListByTrip(context.Background(), tripID)
		require.NoError(t, err)
		require.Len(t, legs, 2)
		assert.Equal(t, "19:30", legs[1].DepartureClock())
		require.NotNil(t, legs[1].BookingReference)
		assert.Equal(t, "ABC123", *legs[1].BookingReference)
		assert.Equal(t, day.Add(10*time.Hour), legs[0].Departure())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete Missing Leg", func(t *testing.T) {
		legID := uuid.New()
		mock.ExpectExec(`DELETE FROM flight_legs WHERE id = \$1 AND trip_id = \$2`).
			WithArgs(legID, tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tripID, legID)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
