package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// QuestionRepository defines data operations for questions.
type QuestionRepository interface {
	ListByTopic(ctx context.Context, topicID uint) ([]models.Question, error)
	GetByID(ctx context.Context, id uint) (models.Question, error)
	GetWithTopic(ctx context.Context, id uint) (models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListByTopic(ctx context.Context, topicID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("problem_number ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) GetWithTopic(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Preload("Topic").First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}
