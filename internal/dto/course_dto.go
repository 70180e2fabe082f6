package dto

import (
	"time"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=64"`
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description"`
	ProfessorID uint   `json:"professor_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CourseUpdateRequest describes the payload for updating a course.
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProfessorID uint      `json:"professor_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:          model.ID,
		Code:        model.Code,
		Name:        model.Name,
		Description: model.Description,
		ProfessorID: model.ProfessorID,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
