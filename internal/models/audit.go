package models

import (
	"time"
)

// AuditLog represents a system audit entry
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Actor     string    `gorm:"size:255;not null;index" json:"actor"`
	ActorRole string    `gorm:"size:50" json:"actor_role"`
	Action    string    `gorm:"size:50;not null" json:"action"` // RECORD, APPROVE, CANCEL, EMAIL, PURGE
	Entity    string    `gorm:"size:50;not null" json:"entity"` // FeePayment, Receipt
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditActionRecord  = "RECORD"
	AuditActionApprove = "APPROVE"
	AuditActionCancel  = "CANCEL"
	AuditActionEmail   = "EMAIL"
	AuditActionPurge   = "PURGE"
)
