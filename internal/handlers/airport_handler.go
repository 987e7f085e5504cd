package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/services"
)

const (
	defaultNearbyLimit = 5
	maxNearbyLimit     = 50
)

// AirportHandler handles airport lookup and distance endpoints
type AirportHandler struct {
	index  *services.AirportIndexService
	logger *logrus.Logger
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(index *services.AirportIndexService, logger *logrus.Logger) *AirportHandler {
	return &AirportHandler{
		index:  index,
		logger: logger,
	}
}

// ListAirports handles GET /api/v1/airports?country=
func (h *AirportHandler) ListAirports(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "country is required"})
		return
	}

	airports, err := h.index.ListByCountry(c.Request.Context(), country)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"airports": airports,
		"count":    len(airports),
	})
}

// GetAirport handles GET /api/v1/airports/:code
func (h *AirportHandler) GetAirport(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	airport, err := h.index.GetAirport(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"airport": airport})
}

// Nearby handles GET /api/v1/airports/:code/nearby?limit=
func (h *AirportHandler) Nearby(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	limit := defaultNearbyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxNearbyLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be between 1 and " + strconv.Itoa(maxNearbyLimit),
			})
			return
		}
		limit = parsed
	}

	nearby, err := h.index.Nearby(code, limit)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"airport": code,
		"nearby":  nearby,
		"count":   len(nearby),
	})
}

// Distance handles GET /api/v1/distance?from=&to=
func (h *AirportHandler) Distance(c *gin.Context) {
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "from and to are required"})
		return
	}

	km, err := h.index.Distance(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":        from,
		"to":          to,
		"distance_km": km,
	})
}
