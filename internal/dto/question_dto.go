package dto

import (
	"encoding/json"
	"time"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// QuestionCreateRequest describes the payload for creating a question.
// MaxAttempts of -1 means unlimited attempts.
type QuestionCreateRequest struct {
	TopicID       uint            `json:"topic_id" validate:"required"`
	ProblemNumber int             `json:"problem_number" validate:"required,min=1"`
	Weight        float64         `json:"weight" validate:"omitempty,gt=0"`
	MaxAttempts   int             `json:"max_attempts" validate:"omitempty,min=-1"`
	Content       json.RawMessage `json:"content"`
	SolutionDate  *string         `json:"solution_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// QuestionUpdateRequest describes the payload for updating a question.
type QuestionUpdateRequest struct {
	ProblemNumber *int            `json:"problem_number" validate:"omitempty,min=1"`
	Weight        *float64        `json:"weight" validate:"omitempty,gt=0"`
	MaxAttempts   *int            `json:"max_attempts" validate:"omitempty,min=-1"`
	Content       json.RawMessage `json:"content"`
	SolutionDate  *string         `json:"solution_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// HasPolicyChange reports whether the update alters attempt or solution
// policy, which requires regrading existing grades.
func (r QuestionUpdateRequest) HasPolicyChange() bool {
	return r.MaxAttempts != nil || r.SolutionDate != nil
}

// QuestionResponse is the serialized representation returned to API clients.
type QuestionResponse struct {
	ID            uint            `json:"id"`
	TopicID       uint            `json:"topic_id"`
	ProblemNumber int             `json:"problem_number"`
	Weight        float64         `json:"weight"`
	MaxAttempts   int             `json:"max_attempts"`
	Content       json.RawMessage `json:"content,omitempty"`
	SolutionDate  *time.Time      `json:"solution_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:            model.ID,
		TopicID:       model.TopicID,
		ProblemNumber: model.ProblemNumber,
		Weight:        model.Weight,
		MaxAttempts:   model.MaxAttempts,
		Content:       json.RawMessage(model.Content),
		SolutionDate:  model.SolutionDate,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
