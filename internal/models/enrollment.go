package models

import "time"

// Enrollment statuses.
const (
	EnrollmentStatusActive  = "active"
	EnrollmentStatusDropped = "dropped"
)

// Enrollment links a student to a course.
type Enrollment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CourseID  uint       `gorm:"not null;index:idx_course_user,unique" json:"course_id"`
	UserID    uint       `gorm:"not null;index:idx_course_user,unique" json:"user_id"`
	Status    string     `gorm:"size:32;not null;default:active" json:"status"`
	DroppedAt *time.Time `json:"dropped_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Course Course `json:"course,omitempty"`
	User   User   `json:"user,omitempty"`
}
