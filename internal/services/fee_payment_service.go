package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/internal/statemachine"
	"github.com/sjperalta/feedesk-api/pkg/logger"
	"gorm.io/gorm"
)

// FeePaymentService stores payments reported by the school backend and
// moves them through their lifecycle.
type FeePaymentService struct {
	composer *receipt.Composer
	repo     repository.FeePaymentRepository
	audit    *AuditService
}

func NewFeePaymentService(composer *receipt.Composer, repo repository.FeePaymentRepository, audit *AuditService) *FeePaymentService {
	return &FeePaymentService{composer: composer, repo: repo, audit: audit}
}

// Record stores a payment as pending or paid. The record is composed first
// so every stored payment can later produce a receipt.
func (s *FeePaymentService) Record(ctx context.Context, record receipt.PaymentRecord, status string, actor Actor) (*models.FeePayment, error) {
	if _, err := s.composer.Compose(record); err != nil {
		return nil, err
	}

	payment, err := models.NewFeePayment(record, s.composer.Dates(), status)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByReceiptNo(ctx, record.ReceiptNo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: receipt number %s", ErrAlreadyExists, record.ReceiptNo)
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: receipt number %s", ErrAlreadyExists, record.ReceiptNo)
		}
		return nil, fmt.Errorf("failed to record fee payment %s: %w", record.ReceiptNo, err)
	}

	s.audit.Log(ctx, actor, models.AuditActionRecord, auditEntityFeePayment, payment.ID, "recorded as "+payment.Status)
	logger.Info("Fee payment recorded",
		slog.String("receipt_no", payment.ReceiptNo),
		slog.String("registration_no", payment.RegistrationNo),
		slog.String("status", payment.Status))
	return payment, nil
}

// Approve marks a pending payment as paid.
func (s *FeePaymentService) Approve(ctx context.Context, receiptNo string, actor Actor) (*models.FeePayment, error) {
	payment, err := s.find(ctx, receiptNo)
	if err != nil {
		return nil, err
	}

	if err := statemachine.NewFeePaymentFSM(payment).Approve(ctx, actor.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to approve fee payment %s: %w", receiptNo, err)
	}

	s.audit.Log(ctx, actor, models.AuditActionApprove, auditEntityFeePayment, payment.ID, "")
	logger.Info("Fee payment approved", slog.String("receipt_no", receiptNo), slog.String("actor", actor.ID))
	return payment, nil
}

// AuditTrail lists the audit entries of one payment, newest first.
func (s *FeePaymentService) AuditTrail(ctx context.Context, receiptNo string) ([]models.AuditLog, error) {
	payment, err := s.find(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	return s.audit.ForPayment(ctx, payment.ID)
}

func (s *FeePaymentService) find(ctx context.Context, receiptNo string) (*models.FeePayment, error) {
	payment, err := s.repo.FindByReceiptNo(ctx, receiptNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fee payment %s", ErrNotFound, receiptNo)
		}
		return nil, err
	}
	return payment, nil
}
