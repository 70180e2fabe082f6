package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/grading"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// QuestionService orchestrates question management. Policy edits (attempt
// ceiling, solution override) replay the owning topic's grades.
type QuestionService interface {
	ListByTopic(ctx context.Context, topicID uint) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, id uint) (dto.QuestionResponse, error)
	Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuestionUpdateRequest, actor Actor) (dto.QuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	topics    repository.TopicRepository
	regrades  RegradeService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(
	questions repository.QuestionRepository,
	topics repository.TopicRepository,
	regrades RegradeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) QuestionService {
	return &questionService{
		questions: questions,
		topics:    topics,
		regrades:  regrades,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) ListByTopic(ctx context.Context, topicID uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Get(ctx context.Context, id uint) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if _, err := s.topics.GetByID(ctx, payload.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrTopicNotFound
		}
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		TopicID:       payload.TopicID,
		ProblemNumber: payload.ProblemNumber,
		Weight:        payload.Weight,
		MaxAttempts:   payload.MaxAttempts,
		Content:       datatypes.JSON(payload.Content),
	}
	if question.Weight <= 0 {
		question.Weight = 1
	}
	if question.MaxAttempts == 0 {
		question.MaxAttempts = grading.UnlimitedAttempts
	}
	if payload.SolutionDate != nil {
		solutionDate, err := time.Parse(time.RFC3339, *payload.SolutionDate)
		if err != nil {
			return dto.QuestionResponse{}, err
		}
		question.SolutionDate = &solutionDate
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Uint("question_id", question.ID).Uint("topic_id", question.TopicID).Msg("question created")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Update(ctx context.Context, id uint, payload dto.QuestionUpdateRequest, actor Actor) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if payload.ProblemNumber != nil {
		question.ProblemNumber = *payload.ProblemNumber
	}
	if payload.Weight != nil {
		question.Weight = *payload.Weight
	}
	if payload.MaxAttempts != nil {
		question.MaxAttempts = *payload.MaxAttempts
		if question.MaxAttempts == 0 {
			question.MaxAttempts = grading.UnlimitedAttempts
		}
	}
	if payload.Content != nil {
		question.Content = datatypes.JSON(payload.Content)
	}
	if payload.SolutionDate != nil {
		solutionDate, err := time.Parse(time.RFC3339, *payload.SolutionDate)
		if err != nil {
			return dto.QuestionResponse{}, err
		}
		question.SolutionDate = &solutionDate
	}

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	if payload.HasPolicyChange() {
		result, err := s.regrades.RegradeTopic(ctx, question.TopicID, actor)
		if err != nil {
			s.logger.Error().Err(err).Uint("question_id", question.ID).Msg("regrade after policy edit failed")
			return dto.QuestionResponse{}, err
		}

		s.logger.Info().
			Uint("question_id", question.ID).
			Int("grades_changed", result.GradesChanged).
			Msg("question policy changed, grades replayed")
	}

	return dto.NewQuestionResponse(question), nil
}
