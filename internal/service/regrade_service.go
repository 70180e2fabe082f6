package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/grading"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/observability"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// ErrTopicNotFound indicates the topic to regrade does not exist.
var ErrTopicNotFound = errors.New("topic not found")

// RegradeService replays recorded submissions after a policy change so that
// every grade ends up exactly as if the submissions had arrived live under
// the new dates and attempt limits.
type RegradeService interface {
	RegradeTopic(ctx context.Context, topicID uint, actor Actor) (dto.RegradeResponse, error)
}

type regradeService struct {
	topics    repository.TopicRepository
	grades    repository.GradeRepository
	uow       repository.UnitOfWork
	events    GradeEventPublisher
	gradebook GradebookInvalidator
	audit     AuditRecorder
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewRegradeService constructs a RegradeService instance.
func NewRegradeService(
	topics repository.TopicRepository,
	grades repository.GradeRepository,
	uow repository.UnitOfWork,
	events GradeEventPublisher,
	gradebook GradebookInvalidator,
	audit AuditRecorder,
	logger zerolog.Logger,
) RegradeService {
	return &regradeService{
		topics:    topics,
		grades:    grades,
		uow:       uow,
		events:    events,
		gradebook: gradebook,
		audit:     audit,
		logger:    logger.With().Str("component", "regrade_service").Logger(),
		tracer:    otel.Tracer("github.com/lumora-edu/lumora-api/internal/service/regrade"),
		now:       time.Now,
	}
}

func (s *regradeService) RegradeTopic(ctx context.Context, topicID uint, actor Actor) (dto.RegradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "regrade.topic", trace.WithAttributes(
		attribute.Int64("regrade.topic_id", int64(topicID)),
	))
	defer span.End()

	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "topic_not_found")
			return dto.RegradeResponse{}, ErrTopicNotFound
		}
		span.RecordError(err)
		return dto.RegradeResponse{}, err
	}

	result := dto.RegradeResponse{TopicID: topicID}

	for _, question := range topic.Questions {
		grades, err := s.grades.ListByQuestion(ctx, question.ID)
		if err != nil {
			span.RecordError(err)
			return dto.RegradeResponse{}, err
		}

		for _, grade := range grades {
			changed, seen, inconsistent, err := s.regradeOne(ctx, topic, question, grade)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "regrade_failed")
				return dto.RegradeResponse{}, err
			}

			result.GradesVisited++
			result.WorkbooksSeen += seen
			result.InconsistentAt = append(result.InconsistentAt, inconsistent...)
			if changed {
				result.GradesChanged++
			}
		}
	}

	observability.RegradeRuns().Inc()
	observability.RegradeGradesChanged().Add(float64(result.GradesChanged))

	entityID := topicID
	if err := s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionTopicRegraded,
		EntityType: "topic",
		EntityID:   &entityID,
		Metadata: map[string]interface{}{
			"grades_visited": result.GradesVisited,
			"grades_changed": result.GradesChanged,
			"workbooks_seen": result.WorkbooksSeen,
		},
	}); err != nil {
		s.logger.Warn().Err(err).Uint("topic_id", topicID).Msg("regrade audit entry failed")
	}

	result.FinishedAt = s.now()
	s.events.PublishRegradeFinished(RegradeEvent{
		TopicID:       topicID,
		GradesVisited: result.GradesVisited,
		GradesChanged: result.GradesChanged,
		OccurredAt:    result.FinishedAt,
	})
	if s.gradebook != nil {
		s.gradebook.Invalidate(ctx, topic.CourseID)
	}

	s.logger.Info().
		Uint("topic_id", topicID).
		Int("grades_visited", result.GradesVisited).
		Int("grades_changed", result.GradesChanged).
		Msg("topic regrade finished")

	return result, nil
}

// regradeOne replays one grade's workbook inside its own transaction. The
// row lock excludes live submissions for the duration of the replay.
func (s *regradeService) regradeOne(ctx context.Context, topic models.Topic, question models.Question, grade models.Grade) (changed bool, seen int, inconsistent []string, err error) {
	err = s.uow.Do(ctx, func(stores repository.GradingStores) error {
		locked, err := stores.Grades.GetForUpdate(ctx, grade.UserID, grade.QuestionID)
		if err != nil {
			return err
		}

		rows, err := stores.Workbooks.ListByGrade(ctx, locked.ID)
		if err != nil {
			return err
		}
		seen = len(rows)

		snapshot, attempts, badRows := replayWorkbooks(topic, question, locked.Locked, rows)
		inconsistent = badRows
		for _, externalID := range badRows {
			observability.UnknownRationale().Inc()
			s.logger.Error().
				Str("workbook_id", externalID).
				Uint("grade_id", locked.ID).
				Msg("regrade replay hit an unreachable rationale branch")
		}

		columns := regradeColumns(locked, snapshot, attempts)
		if len(columns) == 0 {
			return nil
		}

		changed = true
		return stores.Grades.UpdateColumns(ctx, locked.ID, columns)
	})
	return changed, seen, inconsistent, err
}

// replayWorkbooks reruns a grade's recorded attempts, oldest first, against
// the current policy. It starts from a zero aggregate; the instructor lock
// is the only piece of current state that carries over.
func replayWorkbooks(topic models.Topic, question models.Question, lockedFlag bool, rows []models.Workbook) (grading.Snapshot, int, []string) {
	var snapshot grading.Snapshot
	attempts := 0
	var inconsistent []string

	for _, row := range rows {
		input := grading.PolicyInput{
			EndDate:          topic.EndDate,
			DeadDate:         topic.DeadDate,
			SolutionDate:     question.SolutionsVisibleAt(topic),
			Locked:           lockedFlag,
			OverallBestScore: snapshot.OverallBestScore,
			NumAttempts:      attempts,
			MaxAttempts:      effectiveMaxAttempts(question.MaxAttempts),
			SubmittedAt:      row.SubmittedAt,
		}

		rationale := grading.Evaluate(input)
		if rationale.Inconsistent() {
			inconsistent = append(inconsistent, row.ExternalID)
			continue
		}

		transition := grading.Apply(rationale, snapshot, row.Score)
		snapshot = transition.Applied(snapshot)
		if rationale.WillTrackAttempt == grading.TrackYes {
			attempts++
		}
	}

	return snapshot, attempts, inconsistent
}

// regradeColumns diffs the replayed aggregate against the stored one.
// Unlike live grading, a regrade may lower fields: that is the point of
// replaying under a stricter policy.
func regradeColumns(current models.Grade, replayed grading.Snapshot, attempts int) map[string]interface{} {
	columns := make(map[string]interface{})
	if current.BestScore != replayed.BestScore {
		columns["best_score"] = replayed.BestScore
	}
	if current.OverallBestScore != replayed.OverallBestScore {
		columns["overall_best_score"] = replayed.OverallBestScore
	}
	if current.LegalScore != replayed.LegalScore {
		columns["legal_score"] = replayed.LegalScore
	}
	if current.PartialCreditBestScore != replayed.PartialCreditBestScore {
		columns["partial_credit_best_score"] = replayed.PartialCreditBestScore
	}
	if current.EffectiveScore != replayed.EffectiveScore {
		columns["effective_score"] = replayed.EffectiveScore
	}
	if current.NumAttempts != attempts {
		columns["num_attempts"] = attempts
	}
	return columns
}
