package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// ErrGradeNotFound indicates the grade aggregate does not exist.
var ErrGradeNotFound = errors.New("grade not found")

// GradeService exposes grade aggregates and the instructor lock.
type GradeService interface {
	Get(ctx context.Context, id uint) (dto.GradeResponse, error)
	SetLocked(ctx context.Context, id uint, locked bool, actor Actor) (dto.GradeResponse, error)
}

type gradeService struct {
	grades repository.GradeRepository
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(grades repository.GradeRepository, audit AuditRecorder, logger zerolog.Logger) GradeService {
	return &gradeService{
		grades: grades,
		audit:  audit,
		logger: logger.With().Str("component", "grade_service").Logger(),
	}
}

func (s *gradeService) Get(ctx context.Context, id uint) (dto.GradeResponse, error) {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

// SetLocked toggles the instructor lock. While locked, attempts are still
// tracked but never earn credit.
func (s *gradeService) SetLocked(ctx context.Context, id uint, locked bool, actor Actor) (dto.GradeResponse, error) {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	if grade.Locked == locked {
		return dto.NewGradeResponse(grade), nil
	}

	if err := s.grades.UpdateColumns(ctx, grade.ID, map[string]interface{}{"locked": locked}); err != nil {
		return dto.GradeResponse{}, err
	}
	grade.Locked = locked

	action := models.AuditActionGradeUnlocked
	if locked {
		action = models.AuditActionGradeLocked
	}
	entityID := grade.ID
	if err := s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "grade",
		EntityID:   &entityID,
		Metadata: map[string]interface{}{
			"user_id":     grade.UserID,
			"question_id": grade.QuestionID,
		},
	}); err != nil {
		s.logger.Warn().Err(err).Uint("grade_id", grade.ID).Msg("lock audit entry failed")
	}

	s.logger.Info().Uint("grade_id", grade.ID).Bool("locked", locked).Msg("grade lock toggled")

	return dto.NewGradeResponse(grade), nil
}
