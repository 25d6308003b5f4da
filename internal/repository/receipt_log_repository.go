package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/feedesk-api/internal/models"
	"gorm.io/gorm"
)

// ReceiptLogRepository defines the interface for receipt log data access
type ReceiptLogRepository interface {
	Create(ctx context.Context, log *models.ReceiptLog) error
	ListByReceiptNo(ctx context.Context, receiptNo string) ([]models.ReceiptLog, error)
	FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]models.ReceiptLog, error)
	MarkPurged(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

type receiptLogRepository struct {
	db *gorm.DB
}

// NewReceiptLogRepository creates a new receipt log repository
func NewReceiptLogRepository(db *gorm.DB) ReceiptLogRepository {
	return &receiptLogRepository{db: db}
}

func (r *receiptLogRepository) Create(ctx context.Context, log *models.ReceiptLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *receiptLogRepository) ListByReceiptNo(ctx context.Context, receiptNo string) ([]models.ReceiptLog, error) {
	var logs []models.ReceiptLog
	err := r.db.WithContext(ctx).
		Where("receipt_no = ?", receiptNo).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// FindArchivedBefore returns logs whose archived file is older than cutoff
// and has not been purged yet.
func (r *receiptLogRepository) FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]models.ReceiptLog, error) {
	var logs []models.ReceiptLog
	err := r.db.WithContext(ctx).
		Where("storage_path IS NOT NULL AND purged_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *receiptLogRepository) MarkPurged(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ReceiptLog{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"purged_at": at, "storage_path": nil}).Error
}
