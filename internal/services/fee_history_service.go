package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"gorm.io/gorm"
)

// FeeHistoryService answers fee history queries for the admin screens.
type FeeHistoryService struct {
	repo repository.FeePaymentRepository
}

func NewFeeHistoryService(repo repository.FeePaymentRepository) *FeeHistoryService {
	return &FeeHistoryService{repo: repo}
}

// List returns one page of fee payments across all students.
func (s *FeeHistoryService) List(ctx context.Context, query *repository.ListQuery) ([]models.FeePayment, int64, error) {
	return s.repo.List(ctx, query)
}

// ListByRegistration returns one page of a student's fee payments.
func (s *FeeHistoryService) ListByRegistration(ctx context.Context, registrationNo string, query *repository.ListQuery) ([]models.FeePayment, int64, error) {
	return s.repo.ListByRegistration(ctx, registrationNo, query)
}

// Summary returns a student's fee position as of their latest paid payment.
func (s *FeeHistoryService) Summary(ctx context.Context, registrationNo string) (*repository.FeeSummary, error) {
	summary, err := s.repo.Summary(ctx, registrationNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no paid fees for %s", ErrNotFound, registrationNo)
		}
		return nil, err
	}
	return summary, nil
}

// All returns every payment matching query, ignoring pagination. Used by exports.
func (s *FeeHistoryService) All(ctx context.Context, query *repository.ListQuery) ([]models.FeePayment, error) {
	q := *query
	q.Page = 1
	q.PerPage = 0
	payments, _, err := s.repo.List(ctx, &q)
	return payments, err
}
