package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sjperalta/feedesk-api/internal/config"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/render"
	"github.com/sjperalta/feedesk-api/internal/services"
	"github.com/sjperalta/feedesk-api/pkg/logger"
)

// Sends one receipt email through Resend to check the sender domain and
// the attachment. The payment record comes from TEST_RECEIPT_JSON when set.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup("development")

	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY is not set")
	}

	toEmail := os.Getenv("TEST_EMAIL_TO")
	if toEmail == "" {
		toEmail = "test@example.com"
		log.Println("TEST_EMAIL_TO not set, using test@example.com. Emails might fail if the domain is not verified.")
	}

	record, err := loadRecord(os.Getenv("TEST_RECEIPT_JSON"))
	if err != nil {
		log.Fatalf("Failed to read payment record: %v", err)
	}

	dates, err := cfg.DateFormatter()
	if err != nil {
		log.Fatalf("Invalid receipt dates: %v", err)
	}
	doc, err := receipt.NewComposer(cfg.Branding(), dates).Compose(record)
	if err != nil {
		log.Fatalf("Failed to compose receipt: %v", err)
	}

	var logo []byte
	if cfg.InstituteLogoPath != "" {
		if logo, err = render.LoadLogo(cfg.InstituteLogoPath); err != nil {
			log.Printf("Logo skipped: %v", err)
		}
	}
	renderer := render.NewPDFRenderer(logo)
	if cfg.ReceiptFontPath != "" {
		font, err := render.LoadFont(cfg.ReceiptFontPath)
		if err != nil {
			log.Fatalf("Failed to load receipt font: %v", err)
		}
		renderer.WithFont(font)
	}
	pdf, err := renderer.Render(doc)
	if err != nil {
		log.Fatalf("Failed to render receipt: %v", err)
	}

	emailService := services.NewEmailService(cfg)
	filename := services.ReceiptFilename(doc.Details.ReceiptNo, "pdf")

	log.Printf("Sending receipt %s to %s...", doc.Details.ReceiptNo, toEmail)
	if err := emailService.SendReceipt(context.Background(), toEmail, doc, pdf, filename); err != nil {
		log.Fatalf("Failed to send receipt email: %v", err)
	}
	log.Printf("Receipt email sent successfully (checksum %s)", services.Checksum(pdf))
}

func loadRecord(path string) (receipt.PaymentRecord, error) {
	if path == "" {
		amount := 2000.0
		return receipt.PaymentRecord{
			StudentName:               "Test Student",
			RegistrationNo:            "TEST0001",
			CourseName:                "Demo Course",
			BatchName:                 "Demo Batch",
			TotalFee:                  12000,
			PaymentDate:               "2025-09-02T12:31:20.736Z",
			Amount:                    &amount,
			PendingAmountAfterPayment: 10000,
			PaymentMode:               "UPI",
			ReceiptNo:                 "TESTREC0001",
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return receipt.PaymentRecord{}, err
	}
	var record receipt.PaymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return receipt.PaymentRecord{}, err
	}
	return record, nil
}
