package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// ErrCourseNotFound indicates a course could not be found.
var ErrCourseNotFound = errors.New("course not found")

// ErrCourseWindowInvalid indicates the course dates are not ordered.
var ErrCourseWindowInvalid = errors.New("course end date must follow start date")

// CourseService orchestrates course management workflows.
type CourseService interface {
	List(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	startDate, err := time.Parse(time.RFC3339, payload.StartDate)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	endDate, err := time.Parse(time.RFC3339, payload.EndDate)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if !endDate.After(startDate) {
		return dto.CourseResponse{}, ErrCourseWindowInvalid
	}

	course := models.Course{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: s.sanitizer.Sanitize(payload.Description),
		ProfessorID: payload.ProfessorID,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("code", course.Code).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Name != nil {
		course.Name = *payload.Name
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *payload.StartDate)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *payload.EndDate)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.EndDate = endDate
	}
	if !course.EndDate.After(course.StartDate) {
		return dto.CourseResponse{}, ErrCourseWindowInvalid
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}
