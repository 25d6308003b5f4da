package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"github.com/sjperalta/feedesk-api/internal/jobs"
	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"gorm.io/gorm"
)

// Mock FeePaymentRepository backed by a map keyed by receipt number
type mockFeePaymentRepository struct {
	repository.FeePaymentRepository
	mu          sync.Mutex
	payments    map[string]*models.FeePayment
	nextID      uint
	updates     int
	mockList    func(ctx context.Context, query *repository.ListQuery) ([]models.FeePayment, int64, error)
	mockSummary func(ctx context.Context, registrationNo string) (*repository.FeeSummary, error)
}

func newMockFeePaymentRepository(payments ...*models.FeePayment) *mockFeePaymentRepository {
	m := &mockFeePaymentRepository{payments: make(map[string]*models.FeePayment)}
	for _, p := range payments {
		m.nextID++
		p.ID = m.nextID
		m.payments[p.ReceiptNo] = p
	}
	return m
}

func (m *mockFeePaymentRepository) FindByReceiptNo(ctx context.Context, receiptNo string) (*models.FeePayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[receiptNo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockFeePaymentRepository) Create(ctx context.Context, payment *models.FeePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	payment.ID = m.nextID
	copied := *payment
	m.payments[payment.ReceiptNo] = &copied
	return nil
}

func (m *mockFeePaymentRepository) Update(ctx context.Context, payment *models.FeePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	copied := *payment
	m.payments[payment.ReceiptNo] = &copied
	return nil
}

func (m *mockFeePaymentRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.FeePayment, int64, error) {
	if m.mockList != nil {
		return m.mockList(ctx, query)
	}
	return nil, 0, nil
}

func (m *mockFeePaymentRepository) Summary(ctx context.Context, registrationNo string) (*repository.FeeSummary, error) {
	if m.mockSummary != nil {
		return m.mockSummary(ctx, registrationNo)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock ReceiptLogRepository
type mockReceiptLogRepository struct {
	mu       sync.Mutex
	logs     []models.ReceiptLog
	archived []models.ReceiptLog
	purged   []uuid.UUID
}

func (m *mockReceiptLogRepository) Create(ctx context.Context, log *models.ReceiptLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockReceiptLogRepository) ListByReceiptNo(ctx context.Context, receiptNo string) ([]models.ReceiptLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReceiptLog
	for _, l := range m.logs {
		if l.ReceiptNo == receiptNo {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockReceiptLogRepository) FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]models.ReceiptLog, error) {
	return m.archived, nil
}

func (m *mockReceiptLogRepository) MarkPurged(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	m.purged = append(m.purged, ids...)
	return nil
}

// Mock AuditRepository
type mockAuditRepository struct {
	repository.AuditRepository
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepository) ListByEntity(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Entity == entity && m.entries[i].EntityID == entityID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// Mock ReceiptArchive
type mockArchive struct {
	mu       sync.Mutex
	files    map[string][]byte
	deleted  []string
	orphans  int
	failNext bool
}

func newMockArchive() *mockArchive {
	return &mockArchive{files: make(map[string][]byte)}
}

func (m *mockArchive) UploadFromBytes(data []byte, filename string, subDir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := subDir + "/" + filename
	m.files[path] = data
	return path, nil
}

func (m *mockArchive) Delete(relativePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, relativePath)
	m.deleted = append(m.deleted, relativePath)
	return nil
}

func (m *mockArchive) RemoveOlderThan(subDir string, cutoff time.Time) (int, error) {
	return m.orphans, nil
}

// inlineRunner runs async jobs immediately on the caller's goroutine.
type inlineRunner struct {
	names []string
	errs  []error
}

func (r *inlineRunner) EnqueueAsync(name string, job jobs.Job) {
	r.names = append(r.names, name)
	if err := job(context.Background()); err != nil {
		r.errs = append(r.errs, err)
	}
}

// Mock ReceiptMailer
type mockMailer struct {
	enabled bool
	err     error
	sent    []string
	pdfs    [][]byte
}

func (m *mockMailer) Enabled() bool { return m.enabled }

func (m *mockMailer) SendReceipt(ctx context.Context, to string, doc *receipt.Document, pdf []byte, filename string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+doc.Details.ReceiptNo+"|"+filename)
	m.pdfs = append(m.pdfs, pdf)
	return nil
}

// Mock resend sender
type mockEmailSender struct {
	requests []*resend.SendEmailRequest
	err      error
}

func (m *mockEmailSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	m.requests = append(m.requests, params)
	if m.err != nil {
		return nil, m.err
	}
	return &resend.SendEmailResponse{Id: "email_123"}, nil
}

func samplePaymentRecord() receipt.PaymentRecord {
	amount := 2000.0
	return receipt.PaymentRecord{
		StudentName:               "Rohit Verma",
		RegistrationNo:            "TB0925002",
		ClassName:                 "XI",
		CourseName:                "JEE Foundation",
		BatchName:                 "Morning A",
		TotalFee:                  12000,
		PaymentDate:               "2025-09-02T12:31:20.736Z",
		Amount:                    &amount,
		PendingAmountAfterPayment: 10000,
		PaymentMode:               "UPI",
		ReceiptNo:                 "TBREC85836",
	}
}

func samplePayment(status string) *models.FeePayment {
	p, err := models.NewFeePayment(samplePaymentRecord(), receipt.DateFormatter{}, models.FeePaymentStatusPending)
	if err != nil {
		panic(err)
	}
	p.Status = status
	return p
}

func testComposer() *receipt.Composer {
	return receipt.NewComposer(receipt.Branding{
		Name:  "Tara Bharti Coaching Centre",
		Phone: "+91 98765 43210",
	}, receipt.DateFormatter{})
}

var testActor = Actor{ID: "accounts@school.in", Role: "admin", IPAddress: "127.0.0.1"}
