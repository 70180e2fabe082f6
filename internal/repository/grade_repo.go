package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// CourseGradeSummary is one student's aggregate standing within a course,
// produced by the gradebook query.
type CourseGradeSummary struct {
	UserID         uint
	UserName       string
	EffectiveTotal float64
	WeightedTotal  float64
	QuestionCount  int
	AttemptCount   int
}

// GradeRepository defines data operations for grade aggregates.
type GradeRepository interface {
	GetByID(ctx context.Context, id uint) (models.Grade, error)
	GetOrCreate(ctx context.Context, userID, questionID uint) (models.Grade, error)
	// GetForUpdate locks the row for the duration of the surrounding
	// transaction so concurrent submissions to the same grade serialize.
	GetForUpdate(ctx context.Context, userID, questionID uint) (models.Grade, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]models.Grade, error)
	ListByTopic(ctx context.Context, topicID uint) ([]models.Grade, error)
	UpdateColumns(ctx context.Context, id uint, columns map[string]interface{}) error
	Update(ctx context.Context, grade *models.Grade) error
	SummarizeCourse(ctx context.Context, courseID uint) ([]CourseGradeSummary, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) GetByID(ctx context.Context, id uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).First(&grade, id).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) GetOrCreate(ctx context.Context, userID, questionID uint) (models.Grade, error) {
	var grade models.Grade
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&grade).Error
	if err == nil {
		return grade, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Grade{}, err
	}

	grade = models.Grade{UserID: userID, QuestionID: questionID}
	if err := r.db.WithContext(ctx).Create(&grade).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) GetForUpdate(ctx context.Context, userID, questionID uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&grade).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) ListByQuestion(ctx context.Context, questionID uint) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *gradeRepository) ListByTopic(ctx context.Context, topicID uint) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = grades.question_id").
		Where("questions.topic_id = ?", topicID).
		Order("grades.id ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *gradeRepository) UpdateColumns(ctx context.Context, id uint, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Where("id = ?", id).
		Updates(columns).Error
}

func (r *gradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *gradeRepository) SummarizeCourse(ctx context.Context, courseID uint) ([]CourseGradeSummary, error) {
	var rows []CourseGradeSummary
	err := r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Select(`grades.user_id AS user_id,
			users.name AS user_name,
			SUM(grades.effective_score) AS effective_total,
			SUM(grades.effective_score * questions.weight) AS weighted_total,
			COUNT(grades.id) AS question_count,
			SUM(grades.num_attempts) AS attempt_count`).
		Joins("JOIN questions ON questions.id = grades.question_id").
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Joins("JOIN users ON users.id = grades.user_id").
		Where("topics.course_id = ?", courseID).
		Group("grades.user_id, users.name").
		Order("users.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
