package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/itinerary"
	"github.com/tripwise/flight-planner/internal/models"
	"github.com/tripwise/flight-planner/internal/services"
)

// RouteHandler handles route schedule and airline endpoints
type RouteHandler struct {
	routes   services.RouteStore
	airlines services.AirlineStore
	logger   *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes services.RouteStore, airlines services.AirlineStore, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		routes:   routes,
		airlines: airlines,
		logger:   logger,
	}
}

// RouteResponse is a route with its departures rendered as HH:MM
type RouteResponse struct {
	models.Route
	Departures []string `json:"departures"`
}

func newRouteResponse(route models.Route) RouteResponse {
	departures := make([]string, len(route.DepartureTimes))
	for i, minutes := range route.DepartureTimes {
		departures[i] = itinerary.FormatClock(minutes)
	}
	return RouteResponse{Route: route, Departures: departures}
}

// ListFrom handles GET /api/v1/routes?source=
func (h *RouteHandler) ListFrom(c *gin.Context) {
	source := strings.ToUpper(c.Query("source"))
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "source is required"})
		return
	}

	routes, err := h.routes.ListFrom(c.Request.Context(), source)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, route := range routes {
		response = append(response, newRouteResponse(route))
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": response,
		"count":  len(response),
	})
}

// GetRoute handles GET /api/v1/routes/:source/:destination/:airline
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routes.GetByKey(c.Request.Context(),
		strings.ToUpper(c.Param("source")),
		strings.ToUpper(c.Param("destination")),
		strings.ToUpper(c.Param("airline")),
	)
	if errors.Is(err, sql.ErrNoRows) {
		respondServiceError(c, h.logger, services.ErrRouteNotFound)
		return
	}
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": newRouteResponse(*route)})
}

// ListAirlines handles GET /api/v1/airlines
func (h *RouteHandler) ListAirlines(c *gin.Context) {
	airlines, err := h.airlines.ListActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"airlines": airlines,
		"count":    len(airlines),
	})
}

// GetAirline handles GET /api/v1/airlines/:code
func (h *RouteHandler) GetAirline(c *gin.Context) {
	airline, err := h.airlines.GetByCode(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "airline_not_found", "message": "Airline not found"})
		return
	}
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"airline": airline})
}
