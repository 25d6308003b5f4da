package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportPayments() []models.FeePayment {
	first := samplePayment(models.FeePaymentStatusPaid)
	second := samplePayment(models.FeePaymentStatusPaid)
	second.ReceiptNo = "TBREC90001"
	second.PaymentDate = time.Date(2025, 10, 2, 22, 0, 0, 0, time.UTC)
	second.PreviousReceivedAmount = 2000
	second.Amount = 150000
	second.TotalFee = 250000
	second.PendingAmountAfterPayment = 98000
	return []models.FeePayment{*first, *second}
}

func fixedExportService(loc *time.Location) *ExportService {
	s := NewExportService(receipt.DateFormatter{Location: loc})
	s.now = func() time.Time { return time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestExportService_FeeHistoryCSV(t *testing.T) {
	data, filename, err := fixedExportService(nil).FeeHistoryCSV(exportPayments())
	require.NoError(t, err)
	assert.Equal(t, "fee_history_2025-10-05.csv", filename)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, feeHistoryColumns, rows[0])
	assert.Equal(t, []string{"TBREC85836", "02/09/2025", "Rohit Verma", "TB0925002", "JEE Foundation",
		"Morning A", "UPI", "2,000", "2,000", "10,000", "paid"}, rows[1])
	assert.Equal(t, "1,50,000", rows[2][7])
	assert.Equal(t, "1,52,000", rows[2][8])
	assert.Equal(t, "98,000", rows[2][9])
}

func TestExportService_DatesFollowLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	data, _, err := fixedExportService(kolkata).FeeHistoryCSV(exportPayments())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "03/10/2025", rows[2][1], "22:00 UTC is already the next day in India")
}

func TestExportService_FeeHistoryXLSX(t *testing.T) {
	data, filename, err := fixedExportService(nil).FeeHistoryXLSX(exportPayments())
	require.NoError(t, err)
	assert.Equal(t, "fee_history_2025-10-05.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Fee History")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Receipt No", rows[0][0])
	assert.Equal(t, "TBREC90001", rows[2][0])

	amount, err := f.GetCellValue("Fee History", "H3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "150000", amount)
}

func TestFeeHistoryService(t *testing.T) {
	repo := newMockFeePaymentRepository()
	var seen *repository.ListQuery
	repo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.FeePayment, int64, error) {
		seen = query
		return exportPayments(), 2, nil
	}
	service := NewFeeHistoryService(repo)

	query := repository.NewListQuery()
	query.Page = 3
	payments, err := service.All(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, 0, seen.PerPage, "exports are not paginated")
	assert.Equal(t, 3, query.Page, "caller query is untouched")

	_, err = service.Summary(context.Background(), "TB0925002")
	assert.ErrorIs(t, err, ErrNotFound)

	repo.mockSummary = func(ctx context.Context, registrationNo string) (*repository.FeeSummary, error) {
		return &repository.FeeSummary{RegistrationNo: registrationNo, TotalFee: 12000, TotalReceived: 2000, CurrentDues: 10000, PaymentCount: 1}, nil
	}
	summary, err := service.Summary(context.Background(), "TB0925002")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, summary.CurrentDues)
}
