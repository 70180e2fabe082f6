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

// ErrTopicWindowInvalid indicates the topic dates are not ordered
// start <= end <= dead (<= solution, when set).
var ErrTopicWindowInvalid = errors.New("topic dates must satisfy start <= end <= dead <= solution")

// TopicService orchestrates topic management. Editing any grading window
// replays every affected grade so aggregates match the new policy.
type TopicService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.TopicResponse, error)
	Get(ctx context.Context, id uint) (dto.TopicResponse, error)
	Create(ctx context.Context, payload dto.TopicCreateRequest) (dto.TopicResponse, error)
	Update(ctx context.Context, id uint, payload dto.TopicUpdateRequest, actor Actor) (dto.TopicResponse, error)
}

type topicService struct {
	topics    repository.TopicRepository
	courses   repository.CourseRepository
	regrades  RegradeService
	audit     AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewTopicService constructs a TopicService instance.
func NewTopicService(
	topics repository.TopicRepository,
	courses repository.CourseRepository,
	regrades RegradeService,
	audit AuditRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) TopicService {
	return &topicService{
		topics:    topics,
		courses:   courses,
		regrades:  regrades,
		audit:     audit,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "topic_service").Logger(),
	}
}

func (s *topicService) ListByCourse(ctx context.Context, courseID uint) ([]dto.TopicResponse, error) {
	topics, err := s.topics.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewTopicResponseSlice(topics), nil
}

func (s *topicService) Get(ctx context.Context, id uint) (dto.TopicResponse, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TopicResponse{}, ErrTopicNotFound
		}
		return dto.TopicResponse{}, err
	}

	return dto.NewTopicResponse(topic), nil
}

func (s *topicService) Create(ctx context.Context, payload dto.TopicCreateRequest) (dto.TopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TopicResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TopicResponse{}, ErrCourseNotFound
		}
		return dto.TopicResponse{}, err
	}

	topic := models.Topic{
		CourseID:    payload.CourseID,
		Name:        payload.Name,
		Description: s.sanitizer.Sanitize(payload.Description),
	}
	if err := applyTopicDates(&topic, payload.StartDate, payload.EndDate, payload.DeadDate, payload.SolutionDate); err != nil {
		return dto.TopicResponse{}, err
	}

	if err := s.topics.Create(ctx, &topic); err != nil {
		return dto.TopicResponse{}, err
	}

	s.logger.Info().Uint("topic_id", topic.ID).Uint("course_id", topic.CourseID).Msg("topic created")

	return dto.NewTopicResponse(topic), nil
}

func (s *topicService) Update(ctx context.Context, id uint, payload dto.TopicUpdateRequest, actor Actor) (dto.TopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TopicResponse{}, err
	}

	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TopicResponse{}, ErrTopicNotFound
		}
		return dto.TopicResponse{}, err
	}

	previous := topicDates{start: topic.StartDate, end: topic.EndDate, dead: topic.DeadDate, solution: topic.SolutionDate}

	if payload.Name != nil {
		topic.Name = *payload.Name
	}
	if payload.Description != nil {
		topic.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if err := mergeTopicDates(&topic, payload); err != nil {
		return dto.TopicResponse{}, err
	}
	if err := validateTopicWindow(topic); err != nil {
		return dto.TopicResponse{}, err
	}

	if err := s.topics.Update(ctx, &topic); err != nil {
		return dto.TopicResponse{}, err
	}

	if payload.HasDateChange() {
		entityID := topic.ID
		if err := s.audit.Record(ctx, AuditEntry{
			Actor:      actor,
			Action:     models.AuditActionDatesChanged,
			EntityType: "topic",
			EntityID:   &entityID,
			Metadata: map[string]interface{}{
				"previous_end_date":  previous.end,
				"previous_dead_date": previous.dead,
				"end_date":           topic.EndDate,
				"dead_date":          topic.DeadDate,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Uint("topic_id", topic.ID).Msg("date-change audit entry failed")
		}

		result, err := s.regrades.RegradeTopic(ctx, topic.ID, actor)
		if err != nil {
			// The new dates are committed; the caller can retry the regrade
			// explicitly via the regrade endpoint.
			s.logger.Error().Err(err).Uint("topic_id", topic.ID).Msg("regrade after date edit failed")
			return dto.TopicResponse{}, err
		}

		s.logger.Info().
			Uint("topic_id", topic.ID).
			Int("grades_changed", result.GradesChanged).
			Msg("topic dates changed, grades replayed")
	}

	return dto.NewTopicResponse(topic), nil
}

type topicDates struct {
	start, end, dead time.Time
	solution         *time.Time
}

func applyTopicDates(topic *models.Topic, start, end, dead string, solution *string) error {
	startDate, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return err
	}
	endDate, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return err
	}
	deadDate, err := time.Parse(time.RFC3339, dead)
	if err != nil {
		return err
	}

	topic.StartDate = startDate
	topic.EndDate = endDate
	topic.DeadDate = deadDate
	if solution != nil {
		solutionDate, err := time.Parse(time.RFC3339, *solution)
		if err != nil {
			return err
		}
		topic.SolutionDate = &solutionDate
	}

	return validateTopicWindow(*topic)
}

func mergeTopicDates(topic *models.Topic, payload dto.TopicUpdateRequest) error {
	if payload.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *payload.StartDate)
		if err != nil {
			return err
		}
		topic.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *payload.EndDate)
		if err != nil {
			return err
		}
		topic.EndDate = endDate
	}
	if payload.DeadDate != nil {
		deadDate, err := time.Parse(time.RFC3339, *payload.DeadDate)
		if err != nil {
			return err
		}
		topic.DeadDate = deadDate
	}
	if payload.SolutionDate != nil {
		solutionDate, err := time.Parse(time.RFC3339, *payload.SolutionDate)
		if err != nil {
			return err
		}
		topic.SolutionDate = &solutionDate
	}

	return nil
}

func validateTopicWindow(topic models.Topic) error {
	if topic.EndDate.Before(topic.StartDate) || topic.DeadDate.Before(topic.EndDate) {
		return ErrTopicWindowInvalid
	}
	if topic.SolutionDate != nil && topic.SolutionDate.Before(topic.DeadDate) {
		return ErrTopicWindowInvalid
	}

	return nil
}
