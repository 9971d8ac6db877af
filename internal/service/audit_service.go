package service

import (
	"context"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
)

const defaultAuditLimit = 50

// AuditStore is satisfied by repository.AuditRepository.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error)
}

// AuditService records events that are not part of a data mutation, such
// as logins. Mutations write their audit rows inside their own transaction.
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	log := &domain.AuditLog{
		UserID:     userID,
		Action:     action,
		Category:   category,
		ResourceID: userID,
		Details:    details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogLogin logs a user login
func (s *AuditService) LogLogin(ctx context.Context, userID int64) {
	s.Log(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, nil)
}

// LogLogout logs a user logout
func (s *AuditService) LogLogout(ctx context.Context, userID int64) {
	s.Log(ctx, userID, domain.AuditActionLogout, domain.AuditCategoryAuth, nil)
}

// GetUserAuditLogs returns the most recent audit logs of a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, actor domain.Actor, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}
	return s.repo.GetByUserID(ctx, actor.ID, limit)
}
