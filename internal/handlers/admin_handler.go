package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/middleware"
	"github.com/tripwise/flight-planner/internal/services"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AdminHandler handles operator endpoints for schedules and jobs
type AdminHandler struct {
	backfillSvc *services.ScheduleBackfillService
	cronSvc     *services.CronService
	audit       *services.AuditService
	logger      *logrus.Logger
}

// NewAdminHandler creates a new admin handler; audit may be nil
func NewAdminHandler(
	backfillSvc *services.ScheduleBackfillService,
	cronSvc *services.CronService,
	audit *services.AuditService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		backfillSvc: backfillSvc,
		cronSvc:     cronSvc,
		audit:       audit,
		logger:      logger,
	}
}

// RunBackfill handles POST /api/v1/admin/schedules/backfill
func (h *AdminHandler) RunBackfill(c *gin.Context) {
	log := h.logger.WithField("path", c.FullPath())
	if userCtx, ok := middleware.GetUserContext(c); ok {
		log = log.WithField("requested_by", userCtx.UserID)
	}
	log.Info("Manual schedule backfill requested")

	result, err := h.cronSvc.RunBackfillNow(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	safeAudit(c, h.audit, h.logger, services.AuditEvent{
		Action:     services.AuditScheduleBackfill,
		EntityType: services.EntityRoute,
		Details: map[string]interface{}{
			"total":       result.Total,
			"synthesized": result.Synthesized,
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule backfill completed",
		"result":  result,
	})
}

// SynthesizeRoute handles POST /api/v1/admin/routes/:source/:destination/:airline/synthesize
func (h *AdminHandler) SynthesizeRoute(c *gin.Context) {
	route, err := h.backfillSvc.SynthesizeRoute(c.Request.Context(),
		strings.ToUpper(c.Param("source")),
		strings.ToUpper(c.Param("destination")),
		strings.ToUpper(c.Param("airline")),
	)
	if errors.Is(err, services.ErrRouteAlreadyScheduled) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "route_already_scheduled",
			"message": err.Error(),
			"route":   newRouteResponse(*route),
		})
		return
	}
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	safeAudit(c, h.audit, h.logger, services.AuditEvent{
		Action:     services.AuditRouteSynthesized,
		EntityType: services.EntityRoute,
		EntityID:   route.Key(),
		Details: map[string]interface{}{
			"duration_minutes": route.DurationMinutes,
			"price":            route.Price,
		},
	})

	c.JSON(http.StatusOK, gin.H{"route": newRouteResponse(*route)})
}

// AuditLog handles GET /api/v1/admin/audit?limit=
func (h *AdminHandler) AuditLog(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit_disabled", "message": "Audit trail is not enabled"})
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxAuditLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be between 1 and " + strconv.Itoa(maxAuditLimit),
			})
			return
		}
		limit = parsed
	}

	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// CronStatus handles GET /api/v1/admin/cron/status
func (h *AdminHandler) CronStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cronSvc.GetJobStatus())
}
