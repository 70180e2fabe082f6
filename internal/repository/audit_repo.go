package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/models"
)

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository instantiates the repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []models.AuditEntry
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
