package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/models"
	"github.com/tripwise/flight-planner/internal/services"
)

// TripHandler handles trip and itinerary endpoints
type TripHandler struct {
	service *services.ItineraryService
	audit   *services.AuditService
	logger  *logrus.Logger
}

// NewTripHandler creates a new trip handler; audit may be nil
func NewTripHandler(service *services.ItineraryService, audit *services.AuditService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		audit:   audit,
		logger:  logger,
	}
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	safeAudit(c, h.audit, h.logger, services.AuditEvent{
		Action:     services.AuditTripCreated,
		EntityType: services.EntityTrip,
		EntityID:   trip.ID.String(),
		Details:    map[string]interface{}{"name": trip.Name},
	})

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// ListTrips handles GET /api/v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trips, err := h.service.ListTrips(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	details, err := h.service.GetTrip(c.Request.Context(), userID, tripID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// DeleteTrip handles DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(c.Request.Context(), userID, tripID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	safeAudit(c, h.audit, h.logger, services.AuditEvent{
		Action:     services.AuditTripDeleted,
		EntityType: services.EntityTrip,
		EntityID:   tripID.String(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// GetItinerary handles GET /api/v1/trips/:id/itinerary.
// An infeasible itinerary is still a 200; the diagnostics say why.
func (h *TripHandler) GetItinerary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.ValidateTrip(c.Request.Context(), userID, tripID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddLeg handles POST /api/v1/trips/:id/legs
func (h *TripHandler) AddLeg(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.AddFlightLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	leg, err := req.ToFlightLeg(tripID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	added, err := h.service.AddLeg(c.Request.Context(), userID, tripID, leg)
	var conflict *services.LegConflictError
	if errors.As(err, &conflict) {
		safeAudit(c, h.audit, h.logger, services.AuditEvent{
			Action:     services.AuditLegRejected,
			EntityType: services.EntityTrip,
			EntityID:   tripID.String(),
			Details: map[string]interface{}{
				"route":           legRoute(leg),
				"departure":       leg.Departure(),
				"conflicting_leg": conflict.Existing.ID.String(),
			},
		})
	}
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	safeAudit(c, h.audit, h.logger, services.AuditEvent{
		Action:     services.AuditLegAdded,
		EntityType: services.EntityFlightLeg,
		EntityID:   added.ID.String(),
		Details: map[string]interface{}{
			"trip_id":   tripID.String(),
			"route":     legRoute(added),
			"departure": added.Departure(),
		},
	})

	c.JSON(http.StatusCreated, gin.H{"leg": added})
}

// RemoveLeg handles DELETE /api/v1/trips/:id/legs/:leg_id
func (h *TripHandler) RemoveLeg(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	legID, ok := uuidParam(c, "leg_id")
	if !ok {
		return
	}

	if err := h.service.RemoveLeg(c.Request.Context(), userID, tripID, legID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	safeAudit(c, h.audit, h.logger, services.AuditEvent{
		Action:     services.AuditLegRemoved,
		EntityType: services.EntityFlightLeg,
		EntityID:   legID.String(),
		Details:    map[string]interface{}{"trip_id": tripID.String()},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Flight leg removed"})
}

func legRoute(leg *models.FlightLeg) string {
	return leg.SourceCode + "-" + leg.DestinationCode + "-" + leg.AirlineCode
}
