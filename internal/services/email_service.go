package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/feedesk-api/internal/config"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// emailSender is the part of the Resend client used here.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	config *config.Config
	sender emailSender
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config: cfg,
		sender: client.Emails,
	}
}

// Enabled reports whether receipts can be emailed at all.
func (s *EmailService) Enabled() bool {
	return s != nil && s.config.ResendAPIKey != "" && s.config.FromEmail != ""
}

// checkEmailPreconditions validates configuration and the recipient before
// any work is queued.
func (s *EmailService) checkEmailPreconditions(to string) error {
	if s == nil || s.config.ResendAPIKey == "" {
		return fmt.Errorf("%w: RESEND_API_KEY is not set", ErrEmailDisabled)
	}
	if s.config.FromEmail == "" {
		return fmt.Errorf("%w: FROM_EMAIL is not set", ErrEmailDisabled)
	}
	return validateEmailAddress(to)
}

// SendReceipt emails a rendered receipt to a student or guardian with the
// PDF attached.
func (s *EmailService) SendReceipt(ctx context.Context, to string, doc *receipt.Document, pdf []byte, filename string) error {
	if err := s.checkEmailPreconditions(to); err != nil {
		return err
	}

	data := struct {
		StudentName    string
		ReceiptNo      string
		PaymentDate    string
		NextDueDate    string
		Amount         string
		AmountInWords  string
		Dues           string
		InstituteName  string
		InstitutePhone string
	}{
		StudentName:    doc.Admission.StudentName,
		ReceiptNo:      doc.Details.ReceiptNo,
		PaymentDate:    doc.Details.PaymentDate,
		NextDueDate:    doc.Details.NextDueDate,
		Amount:         receipt.FormatAmount(doc.Values.Amount),
		AmountInWords:  doc.Footer.AmountInWords,
		Dues:           receipt.FormatAmount(doc.Values.DuesAmount),
		InstituteName:  doc.Header.Name,
		InstitutePhone: doc.Header.Phone,
	}

	body, err := s.renderTemplate("receipt.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Fee Receipt %s - %s", doc.Details.ReceiptNo, doc.Header.Name)
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{strings.TrimSpace(to)},
		Subject: subject,
		Html:    body,
		Attachments: []*resend.Attachment{{
			Content:     pdf,
			Filename:    filename,
			ContentType: "application/pdf",
		}},
	}
	_, err = s.sender.Send(params)
	if err != nil {
		logger.Error("Failed to send receipt email",
			slog.String("to", to),
			slog.String("receipt_no", doc.Details.ReceiptNo),
			slog.String("error", err.Error()))
		return err
	}

	logger.Info("Receipt email sent", slog.String("to", to), slog.String("receipt_no", doc.Details.ReceiptNo))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
