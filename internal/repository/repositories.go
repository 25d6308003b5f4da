package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	FeePayment FeePaymentRepository
	ReceiptLog ReceiptLogRepository
	Audit      AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		FeePayment: NewFeePaymentRepository(db),
		ReceiptLog: NewReceiptLogRepository(db),
		Audit:      NewAuditRepository(db),
	}
}
