package dto

import (
	"encoding/json"
	"time"

	"github.com/lumora-edu/lumora-api/internal/grading"
	"github.com/lumora-edu/lumora-api/internal/models"
)

// SubmissionCreateRequest is the graded-submission callback consumed from
// the problem renderer. Score must already be normalized to [0,1]; the
// boundary layer rejects anything else before the grading core runs.
type SubmissionCreateRequest struct {
	QuestionID  uint            `json:"question_id" validate:"required"`
	UserID      uint            `json:"user_id" validate:"required"`
	Score       float64         `json:"score" validate:"min=0,max=1"`
	Answer      json.RawMessage `json:"answer"`
	SubmittedAt *time.Time      `json:"submitted_at"`
}

// RationaleResponse mirrors grading.Rationale for API clients.
type RationaleResponse struct {
	IsCompleted          bool   `json:"is_completed"`
	IsExpired            bool   `json:"is_expired"`
	SolutionsAvailable   bool   `json:"solutions_available"`
	IsLocked             bool   `json:"is_locked"`
	IsWithinAttemptLimit bool   `json:"is_within_attempt_limit"`
	IsOnTime             bool   `json:"is_on_time"`
	IsLate               bool   `json:"is_late"`
	WillTrackAttempt     string `json:"will_track_attempt"`
	WillGetCredit        string `json:"will_get_credit"`
}

// NewRationaleResponse converts a grading rationale into a DTO.
func NewRationaleResponse(r grading.Rationale) RationaleResponse {
	return RationaleResponse{
		IsCompleted:          r.IsCompleted,
		IsExpired:            r.IsExpired,
		SolutionsAvailable:   r.SolutionsAvailable,
		IsLocked:             r.IsLocked,
		IsWithinAttemptLimit: r.IsWithinAttemptLimit,
		IsOnTime:             r.IsOnTime,
		IsLate:               r.IsLate,
		WillTrackAttempt:     string(r.WillTrackAttempt),
		WillGetCredit:        string(r.WillGetCredit),
	}
}

// SubmissionResponse reports the outcome of one graded submission.
type SubmissionResponse struct {
	WorkbookID  string            `json:"workbook_id"`
	Score       float64           `json:"score"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Rationale   RationaleResponse `json:"rationale"`
	Grade       GradeResponse     `json:"grade"`
}

// WorkbookResponse is the serialized representation of one attempt record.
type WorkbookResponse struct {
	ID           uint            `json:"id"`
	ExternalID   string          `json:"external_id"`
	GradeID      uint            `json:"grade_id"`
	UserID       uint            `json:"user_id"`
	QuestionID   uint            `json:"question_id"`
	Score        float64         `json:"score"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	Answer       json.RawMessage `json:"answer,omitempty"`
	TrackReason  string          `json:"track_reason"`
	CreditReason string          `json:"credit_reason"`
}

// NewWorkbookResponse converts a model into a DTO.
func NewWorkbookResponse(model models.Workbook) WorkbookResponse {
	return WorkbookResponse{
		ID:           model.ID,
		ExternalID:   model.ExternalID,
		GradeID:      model.GradeID,
		UserID:       model.UserID,
		QuestionID:   model.QuestionID,
		Score:        model.Score,
		SubmittedAt:  model.SubmittedAt,
		Answer:       json.RawMessage(model.Answer),
		TrackReason:  model.TrackReason,
		CreditReason: model.CreditReason,
	}
}

// NewWorkbookResponseSlice converts a slice of models into DTOs.
func NewWorkbookResponseSlice(workbooks []models.Workbook) []WorkbookResponse {
	responses := make([]WorkbookResponse, 0, len(workbooks))
	for _, workbook := range workbooks {
		responses = append(responses, NewWorkbookResponse(workbook))
	}

	return responses
}

// RegradeResponse summarizes a completed regrade run.
type RegradeResponse struct {
	TopicID        uint      `json:"topic_id"`
	GradesVisited  int       `json:"grades_visited"`
	GradesChanged  int       `json:"grades_changed"`
	WorkbooksSeen  int       `json:"workbooks_seen"`
	InconsistentAt []string  `json:"inconsistent_at,omitempty"`
	FinishedAt     time.Time `json:"finished_at"`
}
