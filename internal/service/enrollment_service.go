package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// ErrAlreadyEnrolled indicates an active enrollment already exists.
var ErrAlreadyEnrolled = errors.New("student already enrolled")

// ErrEnrollmentNotFound indicates the enrollment does not exist.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// EnrollmentService manages course membership.
type EnrollmentService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error)
	Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	Drop(ctx context.Context, courseID, userID uint) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	existing, err := s.enrollments.GetByCourseAndUser(ctx, payload.CourseID, payload.UserID)
	switch {
	case err == nil && existing.Status == models.EnrollmentStatusActive:
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	case err == nil:
		// Re-activate a dropped enrollment rather than duplicating the row.
		existing.Status = models.EnrollmentStatusActive
		existing.DroppedAt = nil
		if err := s.enrollments.Update(ctx, &existing); err != nil {
			return dto.EnrollmentResponse{}, err
		}
		return dto.NewEnrollmentResponse(existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		CourseID: payload.CourseID,
		UserID:   payload.UserID,
		Status:   models.EnrollmentStatusActive,
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("course_id", payload.CourseID).Uint("user_id", payload.UserID).Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Drop(ctx context.Context, courseID, userID uint) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByCourseAndUser(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if enrollment.Status == models.EnrollmentStatusDropped {
		return dto.NewEnrollmentResponse(enrollment), nil
	}

	droppedAt := s.now()
	enrollment.Status = models.EnrollmentStatusDropped
	enrollment.DroppedAt = &droppedAt
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}
