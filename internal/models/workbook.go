package models

import (
	"time"

	"gorm.io/datatypes"
)

// Workbook is the immutable record of one submission attempt. Rows are only
// ever appended; regrades replay them in submission order.
type Workbook struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ExternalID   string         `gorm:"size:36;not null;uniqueIndex" json:"external_id"`
	GradeID      uint           `gorm:"not null;index" json:"grade_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	QuestionID   uint           `gorm:"not null;index" json:"question_id"`
	Score        float64        `gorm:"not null" json:"score"`
	SubmittedAt  time.Time      `gorm:"not null;index" json:"submitted_at"`
	Answer       datatypes.JSON `gorm:"type:json" json:"answer"`
	Rationale    datatypes.JSON `gorm:"type:json" json:"rationale"`
	TrackReason  string         `gorm:"size:48;not null" json:"track_reason"`
	CreditReason string         `gorm:"size:48;not null" json:"credit_reason"`
	CreatedAt    time.Time      `json:"created_at"`
}
