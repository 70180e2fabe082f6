package dto

import (
	"time"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// GradeResponse exposes the grading aggregate for one student and question.
type GradeResponse struct {
	ID                     uint      `json:"id"`
	UserID                 uint      `json:"user_id"`
	QuestionID             uint      `json:"question_id"`
	BestScore              float64   `json:"best_score"`
	OverallBestScore       float64   `json:"overall_best_score"`
	LegalScore             float64   `json:"legal_score"`
	PartialCreditBestScore float64   `json:"partial_credit_best_score"`
	EffectiveScore         float64   `json:"effective_score"`
	NumAttempts            int       `json:"num_attempts"`
	Locked                 bool      `json:"locked"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		ID:                     model.ID,
		UserID:                 model.UserID,
		QuestionID:             model.QuestionID,
		BestScore:              model.BestScore,
		OverallBestScore:       model.OverallBestScore,
		LegalScore:             model.LegalScore,
		PartialCreditBestScore: model.PartialCreditBestScore,
		EffectiveScore:         model.EffectiveScore,
		NumAttempts:            model.NumAttempts,
		Locked:                 model.Locked,
		UpdatedAt:              model.UpdatedAt,
	}
}

// GradeLockRequest toggles the instructor lock on a grade.
type GradeLockRequest struct {
	Locked bool `json:"locked"`
}

// GradebookRow is one student's aggregate standing in a course.
type GradebookRow struct {
	UserID         uint    `json:"user_id"`
	UserName       string  `json:"user_name"`
	EffectiveTotal float64 `json:"effective_total"`
	WeightedTotal  float64 `json:"weighted_total"`
	QuestionCount  int     `json:"question_count"`
	AttemptCount   int     `json:"attempt_count"`
}

// GradebookResponse is the cached per-course gradebook summary.
type GradebookResponse struct {
	CourseID    uint           `json:"course_id"`
	Rows        []GradebookRow `json:"rows"`
	GeneratedAt time.Time      `json:"generated_at"`
}
