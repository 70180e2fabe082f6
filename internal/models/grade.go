package models

import "time"

// Grade is the running grading aggregate for one student on one question.
//
// All score fields are fractions in [0,1]. EffectiveScore is the score that
// counts toward the student's grade; LegalScore only reflects full-credit
// wins; PartialCreditBestScore reflects late submissions after the 50%
// penalty on the marginal improvement. Live submissions only ever raise
// these fields; a regrade replay may assign lower values when the policy
// tightened.
type Grade struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	UserID                 uint      `gorm:"not null;index:idx_user_question,unique" json:"user_id"`
	QuestionID             uint      `gorm:"not null;index:idx_user_question,unique" json:"question_id"`
	BestScore              float64   `gorm:"not null;default:0" json:"best_score"`
	OverallBestScore       float64   `gorm:"not null;default:0" json:"overall_best_score"`
	LegalScore             float64   `gorm:"not null;default:0" json:"legal_score"`
	PartialCreditBestScore float64   `gorm:"not null;default:0" json:"partial_credit_best_score"`
	EffectiveScore         float64   `gorm:"not null;default:0" json:"effective_score"`
	NumAttempts            int       `gorm:"not null;default:0" json:"num_attempts"`
	Locked                 bool      `gorm:"not null;default:false" json:"locked"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	User     User     `json:"user,omitempty"`
	Question Question `json:"question,omitempty"`
}
