package models

import "time"

// Course groups topics and enrollments under a single professor.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:64;not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ProfessorID uint      `gorm:"not null;index" json:"professor_id"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Professor   User         `json:"professor,omitempty"`
	Topics      []Topic      `json:"topics,omitempty"`
	Enrollments []Enrollment `json:"enrollments,omitempty"`
}
