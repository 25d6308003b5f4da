package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/xuri/excelize/v2"
)

var feeHistoryColumns = []string{
	"Receipt No", "Date", "Student", "Registration No", "Course", "Batch",
	"Mode", "Amount", "Total Received", "Dues", "Status",
}

// ExportService writes fee history as spreadsheets.
type ExportService struct {
	dates receipt.DateFormatter
	now   func() time.Time
}

func NewExportService(dates receipt.DateFormatter) *ExportService {
	return &ExportService{dates: dates, now: time.Now}
}

// FeeHistoryCSV writes payments as CSV with amounts in Indian grouping.
func (s *ExportService) FeeHistoryCSV(payments []models.FeePayment) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	if err := writer.Write(feeHistoryColumns); err != nil {
		return nil, "", err
	}
	for i := range payments {
		p := &payments[i]
		row := []string{
			p.ReceiptNo,
			s.displayDate(p.PaymentDate),
			p.StudentName,
			p.RegistrationNo,
			p.CourseName,
			p.BatchName,
			p.PaymentMode,
			receipt.FormatAmount(p.Amount),
			receipt.FormatAmount(p.TotalReceived()),
			receipt.FormatAmount(p.PendingAmountAfterPayment),
			p.Status,
		}
		if err := writer.Write(row); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), s.filename("csv"), nil
}

// FeeHistoryXLSX writes payments as a spreadsheet with numeric amount cells.
func (s *ExportService) FeeHistoryXLSX(payments []models.FeePayment) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Fee History"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00

	for i, col := range feeHistoryColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(feeHistoryColumns))
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	for i := range payments {
		p := &payments[i]
		row := i + 2
		values := []interface{}{
			p.ReceiptNo,
			s.displayDate(p.PaymentDate),
			p.StudentName,
			p.RegistrationNo,
			p.CourseName,
			p.BatchName,
			p.PaymentMode,
			p.Amount,
			p.TotalReceived(),
			p.PendingAmountAfterPayment,
			p.Status,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", err
		}
		_ = f.SetCellStyle(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("J%d", row), amountStyle)
	}

	_ = f.SetColWidth(sheet, "A", lastCol, 16)
	_ = f.SetColWidth(sheet, "C", "C", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), s.filename("xlsx"), nil
}

func (s *ExportService) displayDate(t time.Time) string {
	return t.In(s.location()).Format(receipt.DisplayDateLayout)
}

func (s *ExportService) location() *time.Location {
	if s.dates.Location == nil {
		return time.UTC
	}
	return s.dates.Location
}

func (s *ExportService) filename(ext string) string {
	return fmt.Sprintf("fee_history_%s.%s", s.now().Format("2006-01-02"), ext)
}
