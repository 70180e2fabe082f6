package dto

import (
	"time"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// TopicCreateRequest describes the payload for creating a topic.
type TopicCreateRequest struct {
	CourseID     uint    `json:"course_id" validate:"required"`
	Name         string  `json:"name" validate:"required,min=3"`
	Description  string  `json:"description"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate      string  `json:"end_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DeadDate     string  `json:"dead_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	SolutionDate *string `json:"solution_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// TopicUpdateRequest describes the payload for updating a topic. Date edits
// trigger a regrade of every grade under the topic.
type TopicUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=3"`
	Description  *string `json:"description"`
	StartDate    *string `json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate      *string `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DeadDate     *string `json:"dead_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	SolutionDate *string `json:"solution_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// HasDateChange reports whether the update touches any grading window.
func (r TopicUpdateRequest) HasDateChange() bool {
	return r.StartDate != nil || r.EndDate != nil || r.DeadDate != nil || r.SolutionDate != nil
}

// TopicResponse is the serialized representation returned to API clients.
type TopicResponse struct {
	ID           uint       `json:"id"`
	CourseID     uint       `json:"course_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	DeadDate     time.Time  `json:"dead_date"`
	SolutionDate *time.Time `json:"solution_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTopicResponse converts a model into a DTO.
func NewTopicResponse(model models.Topic) TopicResponse {
	return TopicResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		Name:         model.Name,
		Description:  model.Description,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
		DeadDate:     model.DeadDate,
		SolutionDate: model.SolutionDate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewTopicResponseSlice converts a slice of models into DTOs.
func NewTopicResponseSlice(topics []models.Topic) []TopicResponse {
	responses := make([]TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, NewTopicResponse(topic))
	}

	return responses
}
