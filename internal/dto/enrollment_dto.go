package dto

import (
	"time"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// EnrollmentCreateRequest describes the payload for enrolling a student.
type EnrollmentCreateRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
	UserID   uint `json:"user_id" validate:"required"`
}

// EnrollmentResponse is the serialized representation returned to API clients.
type EnrollmentResponse struct {
	ID        uint       `json:"id"`
	CourseID  uint       `json:"course_id"`
	UserID    uint       `json:"user_id"`
	Status    string     `json:"status"`
	DroppedAt *time.Time `json:"dropped_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		UserID:    model.UserID,
		Status:    model.Status,
		DroppedAt: model.DroppedAt,
		CreatedAt: model.CreatedAt,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
