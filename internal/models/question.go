package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question is a single gradable problem within a topic.
type Question struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	TopicID        uint           `gorm:"not null;index:idx_topic_problem,unique" json:"topic_id"`
	ProblemNumber  int            `gorm:"not null;index:idx_topic_problem,unique" json:"problem_number"`
	Weight         float64        `gorm:"not null;default:1" json:"weight"`
	MaxAttempts    int            `gorm:"not null;default:-1" json:"max_attempts"`
	Content        datatypes.JSON `gorm:"type:json" json:"content"`
	SolutionDate   *time.Time     `json:"solution_date,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Topic Topic `json:"topic,omitempty"`
}

// SolutionsVisibleAt resolves the question's solution-release instant,
// preferring a per-question override over the topic default.
func (q Question) SolutionsVisibleAt(topic Topic) time.Time {
	if q.SolutionDate != nil {
		return *q.SolutionDate
	}
	return topic.SolutionsVisibleAt()
}
