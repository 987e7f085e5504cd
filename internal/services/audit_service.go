package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/models"
	"github.com/tripwise/flight-planner/internal/utils"
)

// Audited actions
const (
	AuditTripCreated      = "trip_created"
	AuditTripDeleted      = "trip_deleted"
	AuditLegAdded         = "leg_added"
	AuditLegRejected      = "leg_rejected"
	AuditLegRemoved       = "leg_removed"
	AuditScheduleBackfill = "schedule_backfill"
	AuditRouteSynthesized = "route_synthesized"
)

// Audited entity types
const (
	EntityTrip      = "trip"
	EntityFlightLeg = "flight_leg"
	EntityRoute     = "route"
)

// AuditStore is the subset of database.AuditLogRepository the audit service uses
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RequestMeta identifies who made a request and from where
type RequestMeta struct {
	UserID    *uuid.UUID
	IPAddress string
	UserAgent string
}

// AuditEvent is a change to be recorded
type AuditEvent struct {
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]interface{}
}

// AuditService records changes to trips and route schedules
type AuditService struct {
	store  AuditStore
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(store AuditStore, logger *logrus.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: logger,
	}
}

// Record writes one audit entry. The parsed client is added to the details
// when the request carried a user agent.
func (s *AuditService) Record(ctx context.Context, meta RequestMeta, event AuditEvent) error {
	details := models.AuditDetails{}
	for k, v := range event.Details {
		details[k] = v
	}
	if meta.UserAgent != "" {
		details["client"] = utils.ParseUserAgent(meta.UserAgent)
	}
	if len(details) == 0 {
		details = nil
	}

	entry := &models.AuditLog{
		UserID:     meta.UserID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details:    details,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return fmt.Errorf("%s %s: %w", event.Action, event.EntityID, err)
	}
	return nil
}

// Recent returns the newest audit entries, newest first
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return s.store.ListRecent(ctx, limit)
}

// Cleanup removes entries older than the retention period
func (s *AuditService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := s.store.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"deleted":   deleted,
		"retention": retention.String(),
	}).Info("Old audit logs removed")
	return deleted, nil
}
