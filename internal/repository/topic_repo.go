package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// TopicRepository defines data operations for topics.
type TopicRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Topic, error)
	GetByID(ctx context.Context, id uint) (models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, topic *models.Topic) error
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository instantiates the repository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("start_date ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}

	return topics, nil
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Preload("Questions").First(&topic, id).Error; err != nil {
		return models.Topic{}, err
	}

	return topic, nil
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) Update(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}
