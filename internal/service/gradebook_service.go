package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// GradebookInvalidator drops cached gradebook summaries after grade writes.
type GradebookInvalidator interface {
	Invalidate(ctx context.Context, courseID uint)
}

// GradebookService produces per-course aggregate standings.
type GradebookService interface {
	GradebookInvalidator
	GetCourseGradebook(ctx context.Context, courseID uint) (dto.GradebookResponse, error)
}

type gradebookService struct {
	grades   repository.GradeRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewGradebookService builds the gradebook aggregator.
func NewGradebookService(grades repository.GradeRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) GradebookService {
	return &gradebookService{
		grades:   grades,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "gradebook_service").Logger(),
		now:      time.Now,
	}
}

func gradebookCacheKey(courseID uint) string {
	return fmt.Sprintf("gradebook:course:%d", courseID)
}

func (s *gradebookService) GetCourseGradebook(ctx context.Context, courseID uint) (dto.GradebookResponse, error) {
	cacheKey := gradebookCacheKey(courseID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.GradebookResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("course_id", courseID).Msg("gradebook cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read gradebook cache")
		}
	}

	summaries, err := s.grades.SummarizeCourse(ctx, courseID)
	if err != nil {
		return dto.GradebookResponse{}, err
	}

	rows := make([]dto.GradebookRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, dto.GradebookRow{
			UserID:         summary.UserID,
			UserName:       summary.UserName,
			EffectiveTotal: summary.EffectiveTotal,
			WeightedTotal:  summary.WeightedTotal,
			QuestionCount:  summary.QuestionCount,
			AttemptCount:   summary.AttemptCount,
		})
	}

	response := dto.GradebookResponse{
		CourseID:    courseID,
		Rows:        rows,
		GeneratedAt: s.now(),
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store gradebook cache")
			}
		}
	}

	return response, nil
}

func (s *gradebookService) Invalidate(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, gradebookCacheKey(courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to invalidate gradebook cache")
	}
}
