package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sjperalta/feedesk-api/internal/config"
	"github.com/sjperalta/feedesk-api/internal/jobs"
	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/render"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/internal/services"
	"gorm.io/gorm"
)

// Mock FeePaymentRepository keyed by receipt number
type mockFeePaymentRepo struct {
	repository.FeePaymentRepository
	mu          sync.Mutex
	payments    map[string]*models.FeePayment
	nextID      uint
	lastQuery   *repository.ListQuery
	mockList    func(query *repository.ListQuery) ([]models.FeePayment, int64, error)
	mockSummary func(registrationNo string) (*repository.FeeSummary, error)
}

func newMockFeePaymentRepo() *mockFeePaymentRepo {
	return &mockFeePaymentRepo{payments: make(map[string]*models.FeePayment)}
}

func (m *mockFeePaymentRepo) add(p *models.FeePayment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.payments[p.ReceiptNo] = p
}

func (m *mockFeePaymentRepo) FindByReceiptNo(ctx context.Context, receiptNo string) (*models.FeePayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[receiptNo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockFeePaymentRepo) Create(ctx context.Context, payment *models.FeePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	payment.ID = m.nextID
	copied := *payment
	m.payments[payment.ReceiptNo] = &copied
	return nil
}

func (m *mockFeePaymentRepo) Update(ctx context.Context, payment *models.FeePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *payment
	m.payments[payment.ReceiptNo] = &copied
	return nil
}

func (m *mockFeePaymentRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.FeePayment, int64, error) {
	m.lastQuery = query
	if m.mockList != nil {
		return m.mockList(query)
	}
	return nil, 0, nil
}

func (m *mockFeePaymentRepo) ListByRegistration(ctx context.Context, registrationNo string, query *repository.ListQuery) ([]models.FeePayment, int64, error) {
	m.lastQuery = query
	var out []models.FeePayment
	for _, p := range m.payments {
		if p.RegistrationNo == registrationNo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockFeePaymentRepo) Summary(ctx context.Context, registrationNo string) (*repository.FeeSummary, error) {
	if m.mockSummary != nil {
		return m.mockSummary(registrationNo)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock ReceiptLogRepository
type mockReceiptLogRepo struct {
	mu   sync.Mutex
	logs []models.ReceiptLog
}

func (m *mockReceiptLogRepo) Create(ctx context.Context, log *models.ReceiptLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = uuid.New()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockReceiptLogRepo) ListByReceiptNo(ctx context.Context, receiptNo string) ([]models.ReceiptLog, error) {
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

func (m *mockReceiptLogRepo) FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]models.ReceiptLog, error) {
	return nil, nil
}

func (m *mockReceiptLogRepo) MarkPurged(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	return nil
}

// Mock AuditRepository
type mockAuditRepo struct {
	repository.AuditRepository
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) ListByEntity(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error) {
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

// inlineRunner runs background jobs on the request goroutine.
type inlineRunner struct{}

func (inlineRunner) EnqueueAsync(name string, job jobs.Job) {
	_ = job(context.Background())
}

type testEnv struct {
	payments *mockFeePaymentRepo
	logs     *mockReceiptLogRepo
	audit    *mockAuditRepo
	handlers *Handlers
}

// newTestEnv wires real services over in-memory repositories. Email is
// disabled because no Resend key is configured.
func newTestEnv() *testEnv {
	env := &testEnv{
		payments: newMockFeePaymentRepo(),
		logs:     &mockReceiptLogRepo{},
		audit:    &mockAuditRepo{},
	}

	composer := receipt.NewComposer(receipt.Branding{Name: "Tara Bharti Coaching Centre"}, receipt.DateFormatter{})
	auditSvc := services.NewAuditService(env.audit)
	emailSvc := services.NewEmailService(&config.Config{})

	svcs := &services.Services{
		Receipt: services.NewReceiptService(composer, render.NewRegistry(nil, nil), env.payments, env.logs,
			auditSvc, emailSvc, nil, inlineRunner{}, false),
		FeePayment: services.NewFeePaymentService(composer, env.payments, auditSvc),
		FeeHistory: services.NewFeeHistoryService(env.payments),
		Export:     services.NewExportService(receipt.DateFormatter{}),
		Email:      emailSvc,
		Audit:      auditSvc,
	}
	env.handlers = NewHandlers(svcs)
	return env
}

// router mounts the handlers the way cmd/api does, minus auth. Requests are
// attributed to user "7" with the role from the X-Role header.
func (e *testEnv) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "7")
		c.Set("userRole", c.GetHeader("X-Role"))
		c.Next()
	})

	h := e.handlers
	r.GET("/health", h.Health.Index)
	r.POST("/receipts/preview", h.Receipt.Preview)
	r.POST("/receipts/render", h.Receipt.Render)
	r.GET("/receipts/formats", h.Receipt.Formats)
	r.GET("/receipts/:receipt_no", h.Receipt.Show)
	r.GET("/receipts/:receipt_no/document", h.Receipt.Document)
	r.GET("/receipts/:receipt_no/logs", h.Receipt.Logs)
	r.POST("/receipts/:receipt_no/email", h.Receipt.Email)
	r.POST("/receipts/:receipt_no/cancel", h.Receipt.Cancel)
	r.POST("/fee_payments", h.FeePayment.Create)
	r.POST("/fee_payments/:receipt_no/approve", h.FeePayment.Approve)
	r.GET("/fee_payments/:receipt_no/audit", h.FeePayment.Audit)
	r.GET("/fee_history", h.FeeHistory.Index)
	r.GET("/fee_history/export", h.FeeHistory.Export)
	r.GET("/students/:registration_no/fee_history", h.FeeHistory.Student)
	return r
}

func sampleRecord() receipt.PaymentRecord {
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

func storedPayment(status string) *models.FeePayment {
	p, err := models.NewFeePayment(sampleRecord(), receipt.DateFormatter{}, models.FeePaymentStatusPending)
	if err != nil {
		panic(err)
	}
	p.Status = status
	return p
}
