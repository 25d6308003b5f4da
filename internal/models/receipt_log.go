package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptLog records every receipt handed out: who asked for it, in which
// format, and the digest of the exact bytes delivered.
type ReceiptLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FeePaymentID *uint      `gorm:"index" json:"fee_payment_id,omitempty"`
	ReceiptNo    string     `gorm:"size:50;not null;index" json:"receipt_no"`
	Format       string     `gorm:"size:20;not null" json:"format"`
	Channel      string     `gorm:"size:20;not null" json:"channel"`
	Checksum     string     `gorm:"size:64;not null" json:"checksum"`
	SizeBytes    int64      `json:"size_bytes"`
	StoragePath  *string    `json:"-"`
	Actor        string     `gorm:"size:255" json:"actor"`
	PurgedAt     *time.Time `json:"purged_at,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for ReceiptLog
func (ReceiptLog) TableName() string {
	return "receipt_logs"
}

// Receipt delivery channels
const (
	ReceiptChannelDownload = "download"
	ReceiptChannelEmail    = "email"
)

// BeforeCreate assigns a random ID when none is set.
func (l *ReceiptLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// IsArchived returns true if the delivered file is still in storage
func (l *ReceiptLog) IsArchived() bool {
	return l.StoragePath != nil && *l.StoragePath != "" && l.PurgedAt == nil
}
