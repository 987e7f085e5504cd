package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/flight-planner/internal/config"
	"github.com/tripwise/flight-planner/internal/database"
	"github.com/tripwise/flight-planner/internal/middleware"
	"github.com/tripwise/flight-planner/internal/services"
	"github.com/tripwise/flight-planner/pkg/jwt"
)

var (
	tripColumns = []string{"id", "user_id", "name", "description", "created_at", "updated_at"}
	legColumns  = []string{
		"id", "trip_id", "source_code", "destination_code", "airline_code",
		"flight_date", "departure_minutes", "booking_reference", "seat", "notes", "created_at",
	}
	routeColumns = []string{
		"id", "source_code", "destination_code", "airline_code", "codeshare",
		"stops", "equipment", "duration_minutes", "price", "departure_times",
	}
	airportColumns = []string{
		"code", "icao", "name", "city", "country", "latitude", "longitude",
		"altitude", "timezone_offset", "dst", "tz_name",
	}
)

// testServer wires the real repositories and services over a sqlmock database
type testServer struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	index  *services.AirportIndexService
	jwt    *jwt.Service
	userID uuid.UUID
}

func setupTestServer(t *testing.T) *testServer {
	return newTestServer(t, false)
}

// setupAuditedTestServer also records an audit trail in audit_logs
func setupAuditedTestServer(t *testing.T) *testServer {
	return newTestServer(t, true)
}

func newTestServer(t *testing.T, withAudit bool) *testServer {
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	airportRepo := database.NewAirportRepository(db)
	routeRepo := database.NewRouteRepository(db)
	tripRepo := database.NewTripRepository(db)
	legRepo := database.NewFlightLegRepository(db)

	scheduleCfg := config.ScheduleConfig{CruiseSpeedKmh: 800, CostPerHour: 120, Seed: 42}
	itinerarySvc := services.NewItineraryService(tripRepo, legRepo, routeRepo, airportRepo, logger)
	backfillSvc := services.NewScheduleBackfillService(routeRepo, airportRepo, scheduleCfg, logger)
	indexSvc := services.NewAirportIndexService(airportRepo, logger)
	cronSvc := services.NewCronService(backfillSvc, indexSvc, scheduleCfg, logger)
	jwtService := jwt.NewService("test-access-secret-key-123456789", "flight-planner-test", time.Hour)

	var auditSvc *services.AuditService
	if withAudit {
		auditSvc = services.NewAuditService(database.NewAuditLogRepository(db), logger)
	}

	h := &Handlers{
		Trips:    NewTripHandler(itinerarySvc, auditSvc, logger),
		Airports: NewAirportHandler(indexSvc, logger),
		Routes:   NewRouteHandler(routeRepo, database.NewAirlineRepository(db), logger),
		Admin:    NewAdminHandler(backfillSvc, cronSvc, auditSvc, logger),
	}

	router := gin.New()
	h.Register(router.Group("/api/v1"),
		middleware.AuthMiddleware(jwtService, logger),
		middleware.RequireRole("admin"))

	return &testServer{
		router: router,
		mock:   mock,
		index:  indexSvc,
		jwt:    jwtService,
		userID: uuid.New(),
	}
}

func (s *testServer) token(t *testing.T, roles ...string) string {
	token, err := s.jwt.GenerateAccessToken(s.userID, roles)
	require.NoError(t, err)
	return token
}

// do performs a request; token may be empty for public endpoints
func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// expectTrip queues the ownership lookup every trip endpoint starts with
func (s *testServer) expectTrip(tripID, owner uuid.UUID) {
	now := time.Now().UTC()
	s.mock.ExpectQuery(`SELECT (.+) FROM trips WHERE id = \$1`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows(tripColumns).
			AddRow(tripID.String(), owner.String(), "Spring break", nil, now, now))
}

func (s *testServer) expectRoute(source, destination, airline string, duration, price int, times string) {
	s.mock.ExpectQuery(`SELECT (.+) FROM routes WHERE source_code = \$1 AND destination_code = \$2 AND airline_code = \$3`).
		WithArgs(source, destination, airline).
		WillReturnRows(sqlmock.NewRows(routeColumns).
			AddRow(int64(1), source, destination, airline, "", 0, "738", duration, price, times))
}

func (s *testServer) expectAirport(code, country string, lat, lon float64) {
	s.mock.ExpectQuery(`SELECT (.+) FROM airports WHERE code = \$1`).
		WithArgs(code).
		WillReturnRows(sqlmock.NewRows(airportColumns).
			AddRow(code, "", code+" International", "", country, lat, lon, 0, 0.0, "U", ""))
}

func legRow(rows *sqlmock.Rows, tripID uuid.UUID, source, destination, airline string, date time.Time, minutes int) *sqlmock.Rows {
	return rows.AddRow(uuid.New().String(), tripID.String(), source, destination, airline,
		date, minutes, nil, nil, nil, time.Now().UTC())
}
