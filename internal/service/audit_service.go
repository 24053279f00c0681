package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zimtrader/internal/domain"
)

// AuditService records user actions to the audit trail. Recording is
// best-effort: a failed insert is logged and never fails the user action
// that triggered it.
type AuditService struct {
	auditRepo domain.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo domain.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record writes an audit entry, filling in the ID and timestamp
func (s *AuditService) Record(ctx context.Context, entry domain.AuditLog) {
	entry.ID = uuid.New()
	entry.Timestamp = time.Now().UTC()

	if err := s.auditRepo.Create(ctx, &entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("resource_type", entry.ResourceType),
			zap.Error(err),
		)
	}
}

// Recent returns recent audit entries, newest first
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.auditRepo.GetRecent(ctx, limit)
}
