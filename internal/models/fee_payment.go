package models

import (
	"fmt"
	"time"

	"github.com/sjperalta/feedesk-api/internal/receipt"
)

// FeePayment is one fee payment reported by the school backend. Amounts are
// stored exactly as reported; receipts are generated from this row.
type FeePayment struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ReceiptNo      string `gorm:"size:50;not null;uniqueIndex" json:"receipt_no"`
	StudentName    string `gorm:"not null" json:"student_name"`
	RegistrationNo string `gorm:"size:50;not null;index" json:"registration_no"`
	ClassName      string `json:"class_name"`
	CourseName     string `gorm:"index" json:"course_name"`
	BatchName      string `gorm:"index" json:"batch_name"`

	TotalFee                  float64   `gorm:"type:decimal(12,2);not null" json:"total_fee"`
	PaymentDate               time.Time `gorm:"not null;index" json:"payment_date"`
	Amount                    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PreviousReceivedAmount    float64   `gorm:"type:decimal(12,2);default:0" json:"previous_received_amount"`
	PendingAmountAfterPayment float64   `gorm:"type:decimal(12,2);default:0" json:"pending_amount_after_payment"`

	PaymentMode   string  `gorm:"size:30;not null" json:"payment_mode"`
	TransactionID *string `gorm:"size:100" json:"transaction_id,omitempty"`
	Remarks       *string `gorm:"type:text" json:"remarks,omitempty"`

	Status             string     `gorm:"default:pending;not null;index" json:"status"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name for FeePayment
func (FeePayment) TableName() string {
	return "fee_payments"
}

// Fee payment status constants
const (
	FeePaymentStatusPending   = "pending"
	FeePaymentStatusPaid      = "paid"
	FeePaymentStatusCancelled = "cancelled"
)

// IsValidFeePaymentStatus reports whether s is a known fee payment status.
func IsValidFeePaymentStatus(s string) bool {
	switch s {
	case FeePaymentStatusPending, FeePaymentStatusPaid, FeePaymentStatusCancelled:
		return true
	}
	return false
}

// NewFeePayment builds a fee payment row from a backend payment record.
// Dates without an offset are read in the formatter's location.
func NewFeePayment(record receipt.PaymentRecord, dates receipt.DateFormatter, status string) (*FeePayment, error) {
	paidAt, err := dates.ParseTimestamp(record.PaymentDate)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = FeePaymentStatusPending
	}
	if !IsValidFeePaymentStatus(status) || status == FeePaymentStatusCancelled {
		return nil, fmt.Errorf("%w: cannot record a payment as %q", receipt.ErrInvalidArgument, status)
	}

	return &FeePayment{
		ReceiptNo:                 record.ReceiptNo,
		StudentName:               record.StudentName,
		RegistrationNo:            record.RegistrationNo,
		ClassName:                 record.ClassName,
		CourseName:                record.CourseName,
		BatchName:                 record.BatchName,
		TotalFee:                  record.TotalFee,
		PaymentDate:               paidAt.UTC(),
		Amount:                    record.AmountValue(),
		PreviousReceivedAmount:    record.PreviousReceivedAmount,
		PendingAmountAfterPayment: record.PendingAmountAfterPayment,
		PaymentMode:               record.PaymentMode,
		TransactionID:             record.TransactionID,
		Remarks:                   record.Remarks,
		Status:                    status,
	}, nil
}

// ToRecord converts the stored payment back into the record receipts are
// composed from.
func (p *FeePayment) ToRecord() receipt.PaymentRecord {
	amount := p.Amount
	return receipt.PaymentRecord{
		StudentName:               p.StudentName,
		RegistrationNo:            p.RegistrationNo,
		ClassName:                 p.ClassName,
		CourseName:                p.CourseName,
		BatchName:                 p.BatchName,
		TotalFee:                  p.TotalFee,
		PaymentDate:               p.PaymentDate.UTC().Format(time.RFC3339Nano),
		Amount:                    &amount,
		PreviousReceivedAmount:    p.PreviousReceivedAmount,
		PendingAmountAfterPayment: p.PendingAmountAfterPayment,
		PaymentMode:               p.PaymentMode,
		ReceiptNo:                 p.ReceiptNo,
		TransactionID:             p.TransactionID,
		Remarks:                   p.Remarks,
	}
}

// MayApprove returns true if the payment can be marked as paid
func (p *FeePayment) MayApprove() bool {
	return p.Status == FeePaymentStatusPending
}

// MayCancel returns true if the payment can be cancelled
func (p *FeePayment) MayCancel() bool {
	return p.Status == FeePaymentStatusPending || p.Status == FeePaymentStatusPaid
}

// TotalReceived is the cumulative amount received including this payment.
func (p *FeePayment) TotalReceived() float64 {
	return p.PreviousReceivedAmount + p.Amount
}

// FeePaymentResponse is the JSON response format for fee payments
type FeePaymentResponse struct {
	ID                        uint       `json:"id"`
	ReceiptNo                 string     `json:"receipt_no"`
	StudentName               string     `json:"student_name"`
	RegistrationNo            string     `json:"registration_no"`
	ClassName                 string     `json:"class_name"`
	CourseName                string     `json:"course_name"`
	BatchName                 string     `json:"batch_name"`
	TotalFee                  float64    `json:"total_fee"`
	PaymentDate               time.Time  `json:"payment_date"`
	Amount                    float64    `json:"amount"`
	PreviousReceivedAmount    float64    `json:"previous_received_amount"`
	TotalReceivedAmount       float64    `json:"total_received_amount"`
	PendingAmountAfterPayment float64    `json:"pending_amount_after_payment"`
	PaymentMode               string     `json:"payment_mode"`
	TransactionID             *string    `json:"transaction_id,omitempty"`
	Remarks                   *string    `json:"remarks,omitempty"`
	Status                    string     `json:"status"`
	HasReceipt                bool       `json:"has_receipt"`
	ApprovedAt                *time.Time `json:"approved_at,omitempty"`
	CancellationReason        *string    `json:"cancellation_reason,omitempty"`
	CancelledAt               *time.Time `json:"cancelled_at,omitempty"`
}

// ToResponse converts FeePayment to FeePaymentResponse
func (p *FeePayment) ToResponse() FeePaymentResponse {
	return FeePaymentResponse{
		ID:                        p.ID,
		ReceiptNo:                 p.ReceiptNo,
		StudentName:               p.StudentName,
		RegistrationNo:            p.RegistrationNo,
		ClassName:                 p.ClassName,
		CourseName:                p.CourseName,
		BatchName:                 p.BatchName,
		TotalFee:                  p.TotalFee,
		PaymentDate:               p.PaymentDate,
		Amount:                    p.Amount,
		PreviousReceivedAmount:    p.PreviousReceivedAmount,
		TotalReceivedAmount:       p.TotalReceived(),
		PendingAmountAfterPayment: p.PendingAmountAfterPayment,
		PaymentMode:               p.PaymentMode,
		TransactionID:             p.TransactionID,
		Remarks:                   p.Remarks,
		Status:                    p.Status,
		HasReceipt:                p.Status == FeePaymentStatusPaid,
		ApprovedAt:                p.ApprovedAt,
		CancellationReason:        p.CancellationReason,
		CancelledAt:               p.CancelledAt,
	}
}
