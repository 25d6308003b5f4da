package services

import (
	"context"
	"log/slog"

	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/pkg/logger"
)

// Actor identifies who triggered an operation, as taken from the request's
// token and connection.
type Actor struct {
	ID        string
	Role      string
	IPAddress string
	UserAgent string
}

// SystemActor is used for scheduled jobs.
var SystemActor = Actor{ID: "system", Role: "system"}

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry. Failures are logged and otherwise ignored so
// auditing never blocks the operation being audited.
func (s *AuditService) Log(ctx context.Context, actor Actor, action, entity string, entityID uint, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.AuditLog{
		Actor:     actor.ID,
		ActorRole: actor.Role,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Warn("Failed to write audit log",
			slog.String("action", action),
			slog.String("entity", entity),
			slog.Any("entity_id", entityID),
			slog.String("error", err.Error()))
	}
}

// ForPayment lists the audit trail of one fee payment, newest first.
func (s *AuditService) ForPayment(ctx context.Context, paymentID uint) ([]models.AuditLog, error) {
	return s.repo.ListByEntity(ctx, auditEntityFeePayment, paymentID)
}

const auditEntityFeePayment = "FeePayment"
