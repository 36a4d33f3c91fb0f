// Package audit records every catalog mutation made through the HTTP API and
// serves the resulting event log.
package audit

import (
	"time"

	"gorm.io/datatypes"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is one audited API call. Events are append-only.
type Event struct {
	ID           string            `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	RequestID    string            `gorm:"column:request_id;index" json:"requestId,omitempty"`
	Method       string            `gorm:"column:method;not null" json:"method"`
	Path         string            `gorm:"column:path;not null" json:"path"`
	ResourceType string            `gorm:"column:resource_type" json:"resourceType,omitempty"`
	ResourceID   string            `gorm:"column:resource_id;index" json:"resourceId,omitempty"`
	Action       string            `gorm:"column:action;index:idx_audit_action_time,priority:1;not null" json:"action"`
	Outcome      string            `gorm:"column:outcome;index:idx_audit_outcome_time,priority:1;not null" json:"outcome"`
	StatusCode   int               `gorm:"column:status_code" json:"statusCode"`
	DurationMs   int64             `gorm:"column:duration_ms" json:"durationMs"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;index:idx_audit_action_time,priority:2;index:idx_audit_outcome_time,priority:2;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (Event) TableName() string { return "audit_events" }
