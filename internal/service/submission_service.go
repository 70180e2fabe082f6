package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/grading"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/observability"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// ErrQuestionNotFound indicates the submitted question does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// ErrNotEnrolled indicates the student has no active enrollment in the
// question's course.
var ErrNotEnrolled = errors.New("student is not enrolled in this course")

// ErrTopicNotOpen indicates the topic has not started yet.
var ErrTopicNotOpen = errors.New("topic has not opened")

// SubmissionService runs the grading pipeline for incoming submissions.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListWorkbooks(ctx context.Context, userID, questionID uint) ([]dto.WorkbookResponse, error)
}

type submissionService struct {
	questions   repository.QuestionRepository
	enrollments repository.EnrollmentRepository
	grades      repository.GradeRepository
	workbooks   repository.WorkbookRepository
	uow         repository.UnitOfWork
	events      GradeEventPublisher
	gradebook   GradebookInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	questions repository.QuestionRepository,
	enrollments repository.EnrollmentRepository,
	grades repository.GradeRepository,
	workbooks repository.WorkbookRepository,
	uow repository.UnitOfWork,
	events GradeEventPublisher,
	gradebook GradebookInvalidator,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		questions:   questions,
		enrollments: enrollments,
		grades:      grades,
		workbooks:   workbooks,
		uow:         uow,
		events:      events,
		gradebook:   gradebook,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/lumora-edu/lumora-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.Int64("submission.question_id", int64(payload.QuestionID)),
		attribute.Int64("submission.user_id", int64(payload.UserID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	question, err := s.questions.GetWithTopic(ctx, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "question_not_found")
			return dto.SubmissionResponse{}, ErrQuestionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}
	topic := question.Topic

	if err := s.requireActiveEnrollment(ctx, topic.CourseID, payload.UserID); err != nil {
		span.SetStatus(codes.Error, "enrollment_check_failed")
		return dto.SubmissionResponse{}, err
	}

	submittedAt := s.now()
	if payload.SubmittedAt != nil {
		submittedAt = *payload.SubmittedAt
	}
	if submittedAt.Before(topic.StartDate) {
		span.SetStatus(codes.Error, "topic_not_open")
		return dto.SubmissionResponse{}, ErrTopicNotOpen
	}

	// Ensure the aggregate row exists before entering the locked section,
	// so GetForUpdate has something to lock.
	if _, err := s.grades.GetOrCreate(ctx, payload.UserID, payload.QuestionID); err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	var (
		rationale        grading.Rationale
		grade            models.Grade
		workbook         models.Workbook
		effectiveChanged bool
	)

	err = s.uow.Do(ctx, func(stores repository.GradingStores) error {
		locked, err := stores.Grades.GetForUpdate(ctx, payload.UserID, payload.QuestionID)
		if err != nil {
			return err
		}

		input := grading.PolicyInput{
			EndDate:          topic.EndDate,
			DeadDate:         topic.DeadDate,
			SolutionDate:     question.SolutionsVisibleAt(topic),
			Locked:           locked.Locked,
			OverallBestScore: locked.OverallBestScore,
			NumAttempts:      locked.NumAttempts,
			MaxAttempts:      effectiveMaxAttempts(question.MaxAttempts),
			SubmittedAt:      submittedAt,
		}
		rationale = grading.Evaluate(input)
		transition := grading.Apply(rationale, snapshotOf(locked), payload.Score)

		workbook = models.Workbook{
			ExternalID:   uuid.NewString(),
			GradeID:      locked.ID,
			UserID:       payload.UserID,
			QuestionID:   payload.QuestionID,
			Score:        payload.Score,
			SubmittedAt:  submittedAt,
			Answer:       datatypes.JSON(payload.Answer),
			Rationale:    marshalRationale(rationale),
			TrackReason:  string(rationale.WillTrackAttempt),
			CreditReason: string(rationale.WillGetCredit),
		}
		if err := stores.Workbooks.Create(ctx, &workbook); err != nil {
			return err
		}

		if rationale.Inconsistent() {
			// The attempt is preserved in the workbook, but no score or
			// attempt counter moves until an operator investigates.
			observability.UnknownRationale().Inc()
			s.logger.Error().
				Interface("input", input).
				Interface("rationale", rationale).
				Float64("score", payload.Score).
				Msg("grading rationale hit an unreachable branch; withholding update")
			grade = locked
			return nil
		}

		columns := gradeColumns(transition)
		if rationale.WillTrackAttempt == grading.TrackYes {
			columns["num_attempts"] = locked.NumAttempts + 1
		}
		if err := stores.Grades.UpdateColumns(ctx, locked.ID, columns); err != nil {
			return err
		}

		grade = foldTransition(locked, transition, rationale)
		effectiveChanged = transition.EffectiveScore != nil
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_transaction_failed")
		return dto.SubmissionResponse{}, err
	}

	span.SetAttributes(
		attribute.String("submission.track_reason", string(rationale.WillTrackAttempt)),
		attribute.String("submission.credit_reason", string(rationale.WillGetCredit)),
	)
	observability.Submissions().
		WithLabelValues(string(rationale.WillTrackAttempt), string(rationale.WillGetCredit)).
		Inc()

	if effectiveChanged {
		s.events.PublishGradeUpdated(GradeEvent{
			GradeID:        grade.ID,
			UserID:         grade.UserID,
			QuestionID:     grade.QuestionID,
			EffectiveScore: grade.EffectiveScore,
			CreditReason:   string(rationale.WillGetCredit),
			OccurredAt:     submittedAt,
		})
		if s.gradebook != nil {
			s.gradebook.Invalidate(ctx, topic.CourseID)
		}
	}

	s.logger.Info().
		Uint("grade_id", grade.ID).
		Str("workbook_id", workbook.ExternalID).
		Str("credit_reason", string(rationale.WillGetCredit)).
		Msg("submission graded")

	return dto.SubmissionResponse{
		WorkbookID:  workbook.ExternalID,
		Score:       payload.Score,
		SubmittedAt: submittedAt,
		Rationale:   dto.NewRationaleResponse(rationale),
		Grade:       dto.NewGradeResponse(grade),
	}, nil
}

func (s *submissionService) ListWorkbooks(ctx context.Context, userID, questionID uint) ([]dto.WorkbookResponse, error) {
	workbooks, err := s.workbooks.ListByUserAndQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	return dto.NewWorkbookResponseSlice(workbooks), nil
}

func (s *submissionService) requireActiveEnrollment(ctx context.Context, courseID, userID uint) error {
	enrollment, err := s.enrollments.GetByCourseAndUser(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return ErrNotEnrolled
	}

	return nil
}
