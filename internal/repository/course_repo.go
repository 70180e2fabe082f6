package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// CourseFilter allows narrowing course queries.
type CourseFilter struct {
	ProfessorID *uint
	Search      string
}

// CourseRepository defines data operations for courses.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.ProfessorID != nil {
		query = query.Where("professor_id = ?", *filter.ProfessorID)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}

	var courses []models.Course
	if err := query.Order("start_date DESC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Topics").First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}
