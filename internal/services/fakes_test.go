package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type memAirports struct {
	mu      sync.Mutex
	byCode  map[string]models.Airport
	err     error
	lookups int
}

func newMemAirports(airports ...models.Airport) *memAirports {
	m := &memAirports{byCode: make(map[string]models.Airport)}
	for _, a := range airports {
		m.byCode[a.Code] = a
	}
	return m
}

func (m *memAirports) GetByCode(_ context.Context, code string) (*models.Airport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.byCode[code]
	if !ok {
		return nil, fmt.Errorf("failed to fetch airport %s: %w", code, sql.ErrNoRows)
	}
	return &a, nil
}

func (m *memAirports) ListAll(_ context.Context) ([]models.Airport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Airport, 0, len(m.byCode))
	for _, a := range m.byCode {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b models.Airport) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return 0
	})
	return out, nil
}

func (m *memAirports) ListByCountry(ctx context.Context, country string) ([]models.Airport, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(a models.Airport) bool {
		return a.Country != country
	}), nil
}

type memRoutes struct {
	mu        sync.Mutex
	byKey     map[string]models.Route
	err       error
	updateErr error
	updates   int
}

func newMemRoutes(routes ...models.Route) *memRoutes {
	m := &memRoutes{byKey: make(map[string]models.Route)}
	for i, r := range routes {
		if r.ID == 0 {
			r.ID = int64(i + 1)
		}
		m.byKey[r.Key()] = r
	}
	return m
}

func (m *memRoutes) GetByKey(_ context.Context, source, destination, airline string) (*models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.byKey[source+"-"+destination+"-"+airline]
	if !ok {
		return nil, fmt.Errorf("failed to fetch route: %w", sql.ErrNoRows)
	}
	return &r, nil
}

func (m *memRoutes) ListFrom(_ context.Context, source string) ([]models.Route, error) {
	return m.list(func(r models.Route) bool { return r.SourceCode == source })
}

func (m *memRoutes) ListUnpriced(_ context.Context) ([]models.Route, error) {
	return m.list(func(r models.Route) bool { return r.Price == 0 })
}

func (m *memRoutes) list(keep func(models.Route) bool) ([]models.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Route{}
	for _, r := range m.byKey {
		if keep(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b models.Route) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *memRoutes) UpdateSchedule(_ context.Context, route *models.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	m.byKey[route.Key()] = *route
	return nil
}

func (m *memRoutes) get(key string) models.Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byKey[key]
}

type memTrips struct {
	byID map[uuid.UUID]models.Trip
}

func newMemTrips() *memTrips {
	return &memTrips{byID: make(map[uuid.UUID]models.Trip)}
}

func (m *memTrips) Create(_ context.Context, trip *models.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	trip.CreatedAt = time.Now().UTC()
	trip.UpdatedAt = trip.CreatedAt
	m.byID[trip.ID] = *trip
	return nil
}

func (m *memTrips) GetByID(_ context.Context, id uuid.UUID) (*models.Trip, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch trip: %w", sql.ErrNoRows)
	}
	return &t, nil
}

func (m *memTrips) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range m.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrips) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("trip %s: %w", id, sql.ErrNoRows)
	}
	delete(m.byID, id)
	return nil
}

type memLegs struct {
	byTrip map[uuid.UUID][]models.FlightLeg
	err    error
}

func newMemLegs() *memLegs {
	return &memLegs{byTrip: make(map[uuid.UUID][]models.FlightLeg)}
}

func (m *memLegs) Create(_ context.Context, leg *models.FlightLeg) error {
	if leg.ID == uuid.Nil {
		leg.ID = uuid.New()
	}
	leg.CreatedAt = time.Now().UTC()
	m.byTrip[leg.TripID] = append(m.byTrip[leg.TripID], *leg)
	return nil
}

// ListByTrip returns legs in insertion order so callers must sort
func (m *memLegs) ListByTrip(_ context.Context, tripID uuid.UUID) ([]models.FlightLeg, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.byTrip[tripID]), nil
}

func (m *memLegs) Delete(_ context.Context, tripID, legID uuid.UUID) error {
	legs := m.byTrip[tripID]
	for i, l := range legs {
		if l.ID == legID {
			m.byTrip[tripID] = slices.Delete(legs, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("flight leg %s: %w", legID, sql.ErrNoRows)
}

// testAirports and testRoutes are a small network shared by the service tests
type memAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (m *memAudit) Create(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.ID = int64(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) ListRecent(_ context.Context, limit int) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent := slices.Clone(m.entries)
	slices.Reverse(recent)
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, m.err
}

func (m *memAudit) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.entries)
	m.entries = slices.DeleteFunc(m.entries, func(e models.AuditLog) bool {
		return e.CreatedAt.Before(cutoff)
	})
	return int64(before - len(m.entries)), nil
}

func testAirports() *memAirports {
	return newMemAirports(
		models.Airport{Code: "JFK", Name: "John F Kennedy International", City: "New York", Country: "United States", Latitude: 40.639751, Longitude: -73.778925},
		models.Airport{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "United States", Latitude: 33.942536, Longitude: -118.408075},
		models.Airport{Code: "SFO", Name: "San Francisco International", City: "San Francisco", Country: "United States", Latitude: 37.618972, Longitude: -122.374889},
		models.Airport{Code: "CMB", Name: "Bandaranaike International", City: "Colombo", Country: "Sri Lanka", Latitude: 7.180756, Longitude: 79.884117},
		models.Airport{Code: "DXB", Name: "Dubai International", City: "Dubai", Country: "United Arab Emirates", Latitude: 25.252778, Longitude: 55.364444},
		models.Airport{Code: "LHR", Name: "Heathrow", City: "London", Country: "United Kingdom", Latitude: 51.4706, Longitude: -0.461941},
	)
}

func testRoutes() *memRoutes {
	return newMemRoutes(
		models.Route{SourceCode: "JFK", DestinationCode: "LAX", AirlineCode: "AA", DurationMinutes: 100, Price: 250, DepartureTimes: models.MinuteArray{0, 360, 720, 940, 1080}},
		models.Route{SourceCode: "LAX", DestinationCode: "JFK", AirlineCode: "AA", DurationMinutes: 120, Price: 260, DepartureTimes: models.MinuteArray{60, 420, 1140}},
		models.Route{SourceCode: "LAX", DestinationCode: "SFO", AirlineCode: "AS", DurationMinutes: 80, Price: 90, DepartureTimes: models.MinuteArray{830}},
		models.Route{SourceCode: "CMB", DestinationCode: "DXB", AirlineCode: "UL", DurationMinutes: 270, Price: 310, DepartureTimes: models.MinuteArray{600, 870}},
		models.Route{SourceCode: "DXB", DestinationCode: "LHR", AirlineCode: "EK", DurationMinutes: 450, Price: 520, DepartureTimes: models.MinuteArray{1170}},
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newLeg(source, destination, airline string, date time.Time, minutes int) *models.FlightLeg {
	return &models.FlightLeg{
		SourceCode:       source,
		DestinationCode:  destination,
		AirlineCode:      airline,
		FlightDate:       date,
		DepartureMinutes: minutes,
	}
}
