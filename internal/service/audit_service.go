package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

// Actor represents the authenticated user performing a privileged action.
type Actor struct {
	ID   uint
	Role string
}

// AuditEntry captures the details required to persist an audit record.
type AuditEntry struct {
	Actor      Actor
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// AuditRecorder defines behaviour for recording audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditService persists and queries the audit trail for grading-sensitive
// operations (lock toggles, date edits, regrades).
type AuditService interface {
	AuditRecorder
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type auditService struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return fmt.Errorf("entity type is required")
	}

	model := models.AuditEntry{
		ActorID:    entry.Actor.ID,
		ActorRole:  strings.ToLower(strings.TrimSpace(entry.Actor.Role)),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   datatypes.JSONMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to persist audit entry")
		return err
	}

	return nil
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.repo.ListRecent(ctx, limit)
}
