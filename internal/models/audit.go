package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditDetails is free-form event data stored as JSONB
type AuditDetails map[string]interface{}

// Value implements the driver.Valuer interface
func (d AuditDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface
func (d *AuditDetails) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AuditDetails", src)
	}
	return json.Unmarshal(data, d)
}

// AuditLog is one recorded change to a trip or to route schedules
type AuditLog struct {
	ID         int64        `json:"id" db:"id"`
	UserID     *uuid.UUID   `json:"user_id,omitempty" db:"user_id"`
	Action     string       `json:"action" db:"action"`
	EntityType string       `json:"entity_type" db:"entity_type"`
	EntityID   string       `json:"entity_id" db:"entity_id"` // UUID or route key
	IPAddress  string       `json:"ip_address" db:"ip_address"`
	UserAgent  string       `json:"user_agent" db:"user_agent"`
	Details    AuditDetails `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}
