package repository

import (
	"context"
	"strings"
	"time"

	"github.com/sjperalta/feedesk-api/internal/models"
	"gorm.io/gorm"
)

// FeePaymentRepository defines the interface for fee payment data access
type FeePaymentRepository interface {
	FindByReceiptNo(ctx context.Context, receiptNo string) (*models.FeePayment, error)
	Create(ctx context.Context, payment *models.FeePayment) error
	Update(ctx context.Context, payment *models.FeePayment) error
	List(ctx context.Context, query *ListQuery) ([]models.FeePayment, int64, error)
	ListByRegistration(ctx context.Context, registrationNo string, query *ListQuery) ([]models.FeePayment, int64, error)
	Summary(ctx context.Context, registrationNo string) (*FeeSummary, error)
}

// FeeSummary is a student's fee position derived from their paid payments.
type FeeSummary struct {
	RegistrationNo  string     `json:"registration_no"`
	StudentName     string     `json:"student_name"`
	CourseName      string     `json:"course_name"`
	BatchName       string     `json:"batch_name"`
	TotalFee        float64    `json:"total_fee"`
	TotalReceived   float64    `json:"total_received"`
	CurrentDues     float64    `json:"current_dues"`
	PaymentCount    int64      `json:"payment_count"`
	SumOfPayments   float64    `json:"sum_of_payments"`
	LastReceiptNo   string     `json:"last_receipt_no,omitempty"`
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
}

type feePaymentRepository struct {
	db *gorm.DB
}

// NewFeePaymentRepository creates a new fee payment repository
func NewFeePaymentRepository(db *gorm.DB) FeePaymentRepository {
	return &feePaymentRepository{db: db}
}

func (r *feePaymentRepository) FindByReceiptNo(ctx context.Context, receiptNo string) (*models.FeePayment, error) {
	var payment models.FeePayment
	err := r.db.WithContext(ctx).Where("receipt_no = ?", receiptNo).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *feePaymentRepository) Create(ctx context.Context, payment *models.FeePayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *feePaymentRepository) Update(ctx context.Context, payment *models.FeePayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *feePaymentRepository) List(ctx context.Context, query *ListQuery) ([]models.FeePayment, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.FeePayment{}), query)
}

func (r *feePaymentRepository) ListByRegistration(ctx context.Context, registrationNo string, query *ListQuery) ([]models.FeePayment, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.FeePayment{}).
		Where("fee_payments.registration_no = ?", registrationNo)
	return r.list(ctx, db, query)
}

func (r *feePaymentRepository) list(ctx context.Context, db *gorm.DB, query *ListQuery) ([]models.FeePayment, int64, error) {
	var payments []models.FeePayment
	var total int64

	db = db.Scopes(feePaymentFilters(query))

	// Clone the database session for count to avoid affecting the main query
	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Scopes(feePaymentOrder(query))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&payments).Error
	return payments, total, err
}

// feePaymentFilters applies the fee history filters: status (single or
// comma separated), search_term, start_date, end_date, batch, course.
func feePaymentFilters(query *ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status := query.Filter("status"); status != "" {
			if strings.Contains(status, ",") {
				statuses := strings.Split(status, ",")
				for i := range statuses {
					statuses[i] = strings.TrimSpace(statuses[i])
				}
				db = db.Where("fee_payments.status IN ?", statuses)
			} else {
				db = db.Where("fee_payments.status = ?", status)
			}
		}

		if val := query.Filter("start_date"); val != "" {
			db = db.Where("fee_payments.payment_date >= ?", val)
		}
		if val := query.Filter("end_date"); val != "" {
			endDate := val
			if len(endDate) == 10 {
				endDate += " 23:59:59"
			}
			db = db.Where("fee_payments.payment_date <= ?", endDate)
		}

		if batch := query.Filter("batch"); batch != "" {
			db = db.Where("fee_payments.batch_name = ?", batch)
		}
		if course := query.Filter("course"); course != "" {
			db = db.Where("fee_payments.course_name = ?", course)
		}

		search := query.Filter("search_term")
		if search == "" {
			search = strings.TrimSpace(query.Search)
		}
		if search != "" {
			term := "%" + search + "%"
			db = db.Where("(fee_payments.student_name ILIKE ? OR fee_payments.registration_no ILIKE ? OR "+
				"fee_payments.receipt_no ILIKE ? OR COALESCE(fee_payments.transaction_id, '') ILIKE ?)",
				term, term, term, term)
		}
		return db
	}
}

// feePaymentOrder sorts by a whitelisted column, newest payment first by default.
func feePaymentOrder(query *ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch query.SortBy {
		case "payment_date", "receipt_no", "student_name", "amount", "created_at", "status":
			return db.Order("fee_payments." + query.SortBy + " " + query.SortOrder("ASC")).Order("fee_payments.id DESC")
		default:
			return db.Order("fee_payments.payment_date DESC").Order("fee_payments.id DESC")
		}
	}
}

func (r *feePaymentRepository) Summary(ctx context.Context, registrationNo string) (*FeeSummary, error) {
	var totals struct {
		PaymentCount  int64
		SumOfPayments float64
	}
	err := r.db.WithContext(ctx).Model(&models.FeePayment{}).
		Select("COUNT(*) AS payment_count, COALESCE(SUM(amount), 0) AS sum_of_payments").
		Where("registration_no = ? AND status = ?", registrationNo, models.FeePaymentStatusPaid).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var latest models.FeePayment
	err = r.db.WithContext(ctx).
		Where("registration_no = ? AND status = ?", registrationNo, models.FeePaymentStatusPaid).
		Order("payment_date DESC").Order("id DESC").
		First(&latest).Error
	if err != nil {
		return nil, err
	}

	paidAt := latest.PaymentDate
	return &FeeSummary{
		RegistrationNo:  latest.RegistrationNo,
		StudentName:     latest.StudentName,
		CourseName:      latest.CourseName,
		BatchName:       latest.BatchName,
		TotalFee:        latest.TotalFee,
		TotalReceived:   latest.TotalReceived(),
		CurrentDues:     latest.PendingAmountAfterPayment,
		PaymentCount:    totals.PaymentCount,
		SumOfPayments:   totals.SumOfPayments,
		LastReceiptNo:   latest.ReceiptNo,
		LastPaymentDate: &paidAt,
	}, nil
}
