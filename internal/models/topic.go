package models

import "time"

// Topic is a dated unit of coursework containing questions.
//
// The three dates form the grading windows: submissions before EndDate are
// on time, submissions between EndDate and DeadDate are late, and nothing is
// tracked once solutions are visible. SolutionDate is optional; when unset,
// solutions become visible at DeadDate.
type Topic struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CourseID     uint       `gorm:"not null;index" json:"course_id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      time.Time  `gorm:"not null" json:"end_date"`
	DeadDate     time.Time  `gorm:"not null" json:"dead_date"`
	SolutionDate *time.Time `json:"solution_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Course    Course     `json:"course,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// SolutionsVisibleAt returns the instant the topic reveals its answers.
func (t Topic) SolutionsVisibleAt() time.Time {
	if t.SolutionDate != nil {
		return *t.SolutionDate
	}
	return t.DeadDate
}

// IsOpen reports whether the topic accepts submissions at the given instant.
func (t Topic) IsOpen(reference time.Time) bool {
	return !reference.Before(t.StartDate) && reference.Before(t.DeadDate)
}
