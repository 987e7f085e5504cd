package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/middleware"
	"github.com/tripwise/flight-planner/internal/services"
)

// respondServiceError maps a service error onto an HTTP response
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var conflict *services.LegConflictError

	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "leg_conflict",
			"message":         conflict.Error(),
			"conflicting_leg": conflict.Existing,
		})
	case errors.Is(err, services.ErrTripNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "trip_not_found", "message": "Trip not found"})
	case errors.Is(err, services.ErrLegNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "leg_not_found", "message": "Flight leg not found"})
	case errors.Is(err, services.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "route_not_found", "message": "Route not found"})
	case errors.Is(err, services.ErrAirportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "airport_not_found", "message": "Airport not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "You don't have access to this trip"})
	case errors.Is(err, services.ErrRouteAlreadyScheduled), errors.Is(err, services.ErrBackfillRunning):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
	case errors.Is(err, services.ErrRouteTooShort):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "route_too_short", "message": err.Error()})
	case errors.Is(err, services.ErrUnableToValidate):
		logger.WithError(err).Error("Itinerary validation unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "unable_to_validate",
			"message": "The itinerary could not be checked right now. Please try again later.",
		})
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong"})
	}
}

// requireUser returns the authenticated user's ID, writing 401 when absent
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "User context not found"})
		return uuid.Nil, false
	}
	return userCtx.UserID, true
}

// uuidParam parses a UUID path parameter, writing 400 when malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
