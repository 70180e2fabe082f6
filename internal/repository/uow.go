package repository

import (
	"context"

	"gorm.io/gorm"
)

// GradingStores groups the repositories that must share one transaction
// when a submission or regrade commits.
type GradingStores struct {
	Grades    GradeRepository
	Workbooks WorkbookRepository
	Audit     AuditRepository
}

// UnitOfWork runs a function with transaction-bound repositories. The grade
// row read through GetForUpdate stays locked until the function returns, so
// the read-modify-write of the grading pipeline is serialized per grade.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(stores GradingStores) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork instantiates a gorm-backed unit of work.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(stores GradingStores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(GradingStores{
			Grades:    NewGradeRepository(tx),
			Workbooks: NewWorkbookRepository(tx),
			Audit:     NewAuditRepository(tx),
		})
	})
}
