package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/feedesk-api/internal/jobs"
	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/render"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/internal/statemachine"
	"github.com/sjperalta/feedesk-api/pkg/logger"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

// ReceiptArchiveDir is the storage sub-directory for delivered receipts.
const ReceiptArchiveDir = "receipts"

// ReceiptArchive stores delivered receipt files.
type ReceiptArchive interface {
	UploadFromBytes(data []byte, filename string, subDir string) (string, error)
	Delete(relativePath string) error
	RemoveOlderThan(subDir string, cutoff time.Time) (int, error)
}

// JobRunner runs work off the request path.
type JobRunner interface {
	EnqueueAsync(name string, job jobs.Job)
}

// ReceiptMailer delivers a rendered receipt by email.
type ReceiptMailer interface {
	Enabled() bool
	SendReceipt(ctx context.Context, to string, doc *receipt.Document, pdf []byte, filename string) error
}

// RenderedReceipt is a receipt in one output format, ready to be served.
type RenderedReceipt struct {
	Document    *receipt.Document
	Format      string
	Data        []byte
	ContentType string
	Filename    string
	Checksum    string
}

type ReceiptService struct {
	composer  *receipt.Composer
	renderers *render.Registry
	payments  repository.FeePaymentRepository
	logs      repository.ReceiptLogRepository
	audit     *AuditService
	mailer    ReceiptMailer
	archive   ReceiptArchive
	worker    JobRunner
	archiving bool
	now       func() time.Time
}

func NewReceiptService(
	composer *receipt.Composer,
	renderers *render.Registry,
	payments repository.FeePaymentRepository,
	logs repository.ReceiptLogRepository,
	audit *AuditService,
	mailer ReceiptMailer,
	archive ReceiptArchive,
	worker JobRunner,
	archiving bool,
) *ReceiptService {
	return &ReceiptService{
		composer:  composer,
		renderers: renderers,
		payments:  payments,
		logs:      logs,
		audit:     audit,
		mailer:    mailer,
		archive:   archive,
		worker:    worker,
		archiving: archiving,
		now:       time.Now,
	}
}

// Formats lists the output formats receipts can be rendered in.
func (s *ReceiptService) Formats() []string {
	return s.renderers.Formats()
}

// Preview composes a receipt without rendering it.
func (s *ReceiptService) Preview(record receipt.PaymentRecord) (*receipt.Document, error) {
	return s.composer.Compose(record)
}

// Render composes a receipt for an ad-hoc payment record and renders it.
func (s *ReceiptService) Render(ctx context.Context, record receipt.PaymentRecord, format string) (*RenderedReceipt, error) {
	renderer, err := s.renderers.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	doc, err := s.composer.Compose(record)
	if err != nil {
		return nil, err
	}

	if doc.Values.DuesMismatch {
		logger.Warn("Receipt dues disagree with fee totals",
			slog.String("receipt_no", doc.Details.ReceiptNo),
			slog.Float64("dues_amount", doc.Values.DuesAmount),
			slog.Float64("expected_dues_amount", doc.Values.ExpectedDuesAmount))
	}

	data, err := renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt %s as %s: %w", doc.Details.ReceiptNo, format, err)
	}

	return &RenderedReceipt{
		Document:    doc,
		Format:      format,
		Data:        data,
		ContentType: renderer.ContentType(),
		Filename:    ReceiptFilename(doc.Details.ReceiptNo, renderer.Extension()),
		Checksum:    Checksum(data),
	}, nil
}

// Document composes the receipt of a stored payment. Cancelled payments
// have no receipt.
func (s *ReceiptService) Document(ctx context.Context, receiptNo string) (*receipt.Document, error) {
	payment, err := s.findPayment(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.FeePaymentStatusCancelled {
		return nil, fmt.Errorf("%w: fee payment %s is cancelled", ErrInvalidState, receiptNo)
	}
	return s.composer.Compose(payment.ToRecord())
}

// RenderByReceiptNo renders the receipt of a paid payment and records the
// delivery. Archiving and logging happen in the background.
func (s *ReceiptService) RenderByReceiptNo(ctx context.Context, receiptNo, format string, actor Actor) (*RenderedReceipt, error) {
	payment, err := s.findPaidPayment(ctx, receiptNo)
	if err != nil {
		return nil, err
	}

	rendered, err := s.Render(ctx, payment.ToRecord(), format)
	if err != nil {
		return nil, err
	}

	s.recordDelivery(payment, rendered, models.ReceiptChannelDownload, actor)
	return rendered, nil
}

// EmailReceipt renders the PDF receipt of a paid payment and queues it for
// delivery to the given address. The delivery is logged and audited only
// once the mail has been accepted.
func (s *ReceiptService) EmailReceipt(ctx context.Context, receiptNo, to string, actor Actor) error {
	if s.mailer == nil || !s.mailer.Enabled() {
		return ErrEmailDisabled
	}
	if err := validateEmailAddress(to); err != nil {
		return err
	}

	payment, err := s.findPaidPayment(ctx, receiptNo)
	if err != nil {
		return err
	}

	rendered, err := s.Render(ctx, payment.ToRecord(), render.FormatPDF)
	if err != nil {
		return err
	}

	paymentID := payment.ID
	s.worker.EnqueueAsync("email-receipt", func(ctx context.Context) error {
		if err := s.mailer.SendReceipt(ctx, to, rendered.Document, rendered.Data, rendered.Filename); err != nil {
			return fmt.Errorf("failed to email receipt %s: %w", receiptNo, err)
		}
		if err := s.logDelivery(ctx, paymentID, rendered, models.ReceiptChannelEmail, actor); err != nil {
			return err
		}
		s.audit.Log(ctx, actor, models.AuditActionEmail, auditEntityFeePayment, paymentID, "receipt emailed to "+to)
		return nil
	})
	return nil
}

// Cancel cancels a fee payment. Its receipt can no longer be issued.
func (s *ReceiptService) Cancel(ctx context.Context, receiptNo, reason string, actor Actor) (*models.FeePayment, error) {
	payment, err := s.findPayment(ctx, receiptNo)
	if err != nil {
		return nil, err
	}

	if err := statemachine.NewFeePaymentFSM(payment).Cancel(ctx, actor.ID, strings.TrimSpace(reason)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to cancel fee payment %s: %w", receiptNo, err)
	}

	s.audit.Log(ctx, actor, models.AuditActionCancel, auditEntityFeePayment, payment.ID, reason)
	logger.Info("Fee payment cancelled", slog.String("receipt_no", receiptNo), slog.String("actor", actor.ID))
	return payment, nil
}

// History lists every delivery of a receipt, newest first.
func (s *ReceiptService) History(ctx context.Context, receiptNo string) ([]models.ReceiptLog, error) {
	if _, err := s.findPayment(ctx, receiptNo); err != nil {
		return nil, err
	}
	return s.logs.ListByReceiptNo(ctx, receiptNo)
}

// PurgeArchive deletes archived receipt files older than retention and
// returns how many files were removed.
func (s *ReceiptService) PurgeArchive(ctx context.Context, retention time.Duration) (int, error) {
	if s.archive == nil {
		return 0, nil
	}
	now := s.now()
	cutoff := now.Add(-retention)

	stale, err := s.logs.FindArchivedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find archived receipts: %w", err)
	}

	removed := 0
	purged := make([]uuid.UUID, 0, len(stale))
	for _, entry := range stale {
		if entry.IsArchived() {
			if err := s.archive.Delete(*entry.StoragePath); err != nil {
				logger.Warn("Failed to delete archived receipt",
					slog.String("receipt_no", entry.ReceiptNo),
					slog.String("error", err.Error()))
				continue
			}
			removed++
			if entry.FeePaymentID != nil {
				s.audit.Log(ctx, SystemActor, models.AuditActionPurge, auditEntityFeePayment, *entry.FeePaymentID,
					"archived receipt "+*entry.StoragePath+" purged")
			}
		}
		purged = append(purged, entry.ID)
	}

	if err := s.logs.MarkPurged(ctx, purged, now); err != nil {
		return removed, fmt.Errorf("failed to mark receipts purged: %w", err)
	}

	// Files whose log row was never written.
	orphans, err := s.archive.RemoveOlderThan(ReceiptArchiveDir, cutoff)
	if err != nil {
		return removed, fmt.Errorf("failed to sweep receipt archive: %w", err)
	}

	logger.Info("Receipt archive purged", slog.Int("removed", removed), slog.Int("orphans", orphans))
	return removed + orphans, nil
}

// recordDelivery logs a served receipt off the request path.
func (s *ReceiptService) recordDelivery(payment *models.FeePayment, rendered *RenderedReceipt, channel string, actor Actor) {
	paymentID := payment.ID
	s.worker.EnqueueAsync("record-receipt", func(ctx context.Context) error {
		return s.logDelivery(ctx, paymentID, rendered, channel, actor)
	})
}

// logDelivery archives the delivered bytes and writes the receipt log.
func (s *ReceiptService) logDelivery(ctx context.Context, paymentID uint, rendered *RenderedReceipt, channel string, actor Actor) error {
	entry := &models.ReceiptLog{
		FeePaymentID: &paymentID,
		ReceiptNo:    rendered.Document.Details.ReceiptNo,
		Format:       rendered.Format,
		Channel:      channel,
		Checksum:     rendered.Checksum,
		SizeBytes:    int64(len(rendered.Data)),
		Actor:        actor.ID,
	}

	if s.archiving && s.archive != nil {
		path, err := s.archive.UploadFromBytes(rendered.Data, rendered.Filename, ReceiptArchiveDir)
		if err != nil {
			logger.Warn("Failed to archive receipt",
				slog.String("receipt_no", entry.ReceiptNo),
				slog.String("error", err.Error()))
		} else {
			entry.StoragePath = &path
		}
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to log receipt %s: %w", entry.ReceiptNo, err)
	}
	return nil
}

func (s *ReceiptService) findPayment(ctx context.Context, receiptNo string) (*models.FeePayment, error) {
	payment, err := s.payments.FindByReceiptNo(ctx, receiptNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fee payment %s", ErrNotFound, receiptNo)
		}
		return nil, err
	}
	return payment, nil
}

func (s *ReceiptService) findPaidPayment(ctx context.Context, receiptNo string) (*models.FeePayment, error) {
	payment, err := s.findPayment(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.FeePaymentStatusPaid {
		return nil, fmt.Errorf("%w: fee payment %s is %s, receipts are issued for paid payments only",
			ErrInvalidState, receiptNo, payment.Status)
	}
	return payment, nil
}

// Checksum is the hex BLAKE2b-256 digest of a rendered receipt.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReceiptFilename builds a download filename from a receipt number.
func ReceiptFilename(receiptNo, ext string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(receiptNo, "_"), "._")
	if name == "" {
		name = "receipt"
	}
	return fmt.Sprintf("receipt-%s.%s", name, ext)
}

func validateEmailAddress(to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("%w: email address is empty", receipt.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("%w: invalid email address %q", receipt.ErrInvalidArgument, to)
	}
	return nil
}
