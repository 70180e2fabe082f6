package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded for grading-sensitive operations.
const (
	AuditActionGradeLocked   = "grade_locked"
	AuditActionGradeUnlocked = "grade_unlocked"
	AuditActionTopicRegraded = "topic_regraded"
	AuditActionDatesChanged  = "topic_dates_changed"
)

// AuditEntry captures auditable events triggered by professors and admins.
type AuditEntry struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
