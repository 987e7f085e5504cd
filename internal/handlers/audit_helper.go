package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/middleware"
	"github.com/tripwise/flight-planner/internal/services"
	"github.com/tripwise/flight-planner/internal/utils"
)

// requestMeta collects the caller's identity for the audit trail
func requestMeta(c *gin.Context) services.RequestMeta {
	meta := services.RequestMeta{
		IPAddress: utils.GetRealIP(c),
		UserAgent: c.Request.UserAgent(),
	}
	if userCtx, ok := middleware.GetUserContext(c); ok {
		userID := userCtx.UserID
		meta.UserID = &userID
	}
	return meta
}

// safeAudit records an audit event without failing the request.
// A nil audit service disables the trail.
func safeAudit(c *gin.Context, audit *services.AuditService, logger *logrus.Logger, event services.AuditEvent) {
	if audit == nil {
		return
	}
	if err := audit.Record(c.Request.Context(), requestMeta(c), event); err != nil {
		logger.WithError(err).WithField("action", event.Action).Warn("AUDIT ERROR")
	}
}
