package services

import (
	"log/slog"

	"github.com/sjperalta/feedesk-api/internal/config"
	"github.com/sjperalta/feedesk-api/internal/jobs"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/render"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/internal/storage"
	"github.com/sjperalta/feedesk-api/pkg/logger"
)

// Services holds all service instances
type Services struct {
	Receipt    *ReceiptService
	FeePayment *FeePaymentService
	FeeHistory *FeeHistoryService
	Export     *ExportService
	Email      *EmailService
	Audit      *AuditService
	Job        *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config) (*Services, error) {
	dates, err := cfg.DateFormatter()
	if err != nil {
		return nil, err
	}

	branding := cfg.Branding()
	composer := receipt.NewComposer(branding, dates)

	// A missing logo only removes it from the header.
	var logo []byte
	if branding.LogoPath != "" {
		logo, err = render.LoadLogo(branding.LogoPath)
		if err != nil {
			logger.Warn("Receipt logo unavailable", slog.String("path", branding.LogoPath), slog.String("error", err.Error()))
			logo = nil
		}
	}

	var font []byte
	if cfg.ReceiptFontPath != "" {
		font, err = render.LoadFont(cfg.ReceiptFontPath)
		if err != nil {
			return nil, err
		}
	}
	renderers := render.NewRegistry(logo, font)

	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(repos.Audit)

	return &Services{
		Receipt: NewReceiptService(composer, renderers, repos.FeePayment, repos.ReceiptLog,
			auditSvc, emailSvc, storage, worker, cfg.ReceiptArchive),
		FeePayment: NewFeePaymentService(composer, repos.FeePayment, auditSvc),
		FeeHistory: NewFeeHistoryService(repos.FeePayment),
		Export:     NewExportService(dates),
		Email:      emailSvc,
		Audit:      auditSvc,
		Job:        NewJobService(worker),
	}, nil
}
