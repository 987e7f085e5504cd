package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tripwise/flight-planner/internal/models"
)

// AuditLogRepository handles database operations for the audit_logs table
type AuditLogRepository struct {
	db DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create writes an audit entry, stamping its creation time
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		entry.IPAddress, entry.UserAgent, entry.Details, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}
	return nil
}

// ListRecent retrieves the newest audit entries
func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	entries := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes entries created before cutoff
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
