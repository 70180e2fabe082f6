package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// WorkbookRepository defines data operations for the append-only workbook.
type WorkbookRepository interface {
	Create(ctx context.Context, workbook *models.Workbook) error
	// ListByGrade returns a grade's attempts oldest first, the order the
	// regrade replay requires.
	ListByGrade(ctx context.Context, gradeID uint) ([]models.Workbook, error)
	ListByUserAndQuestion(ctx context.Context, userID, questionID uint) ([]models.Workbook, error)
}

type workbookRepository struct {
	db *gorm.DB
}

// NewWorkbookRepository instantiates the repository.
func NewWorkbookRepository(db *gorm.DB) WorkbookRepository {
	return &workbookRepository{db: db}
}

func (r *workbookRepository) Create(ctx context.Context, workbook *models.Workbook) error {
	return r.db.WithContext(ctx).Create(workbook).Error
}

func (r *workbookRepository) ListByGrade(ctx context.Context, gradeID uint) ([]models.Workbook, error) {
	var workbooks []models.Workbook
	if err := r.db.WithContext(ctx).
		Where("grade_id = ?", gradeID).
		Order("submitted_at ASC, id ASC").
		Find(&workbooks).Error; err != nil {
		return nil, err
	}

	return workbooks, nil
}

func (r *workbookRepository) ListByUserAndQuestion(ctx context.Context, userID, questionID uint) ([]models.Workbook, error) {
	var workbooks []models.Workbook
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("submitted_at ASC, id ASC").
		Find(&workbooks).Error; err != nil {
		return nil, err
	}

	return workbooks, nil
}
