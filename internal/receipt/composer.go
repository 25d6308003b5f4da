package receipt

import (
	"fmt"
	"math"
	"strings"
)

// Composer builds receipt documents for one institution. It holds no
// mutable state and is safe for concurrent use.
type Composer struct {
	branding Branding
	dates    DateFormatter
}

// NewComposer creates a composer with the given branding and date rules.
func NewComposer(branding Branding, dates DateFormatter) *Composer {
	return &Composer{branding: branding, dates: dates}
}

// Branding returns the header the composer prints.
func (c *Composer) Branding() Branding {
	return c.branding
}

// Dates returns the date rules the composer applies.
func (c *Composer) Dates() DateFormatter {
	return c.dates
}

// Compose turns a payment record into a complete receipt document. It either
// returns a fully populated document or an error; never a partial one.
func (c *Composer) Compose(record PaymentRecord) (*Document, error) {
	if missing := record.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(missing, ", "))
	}

	if err := validateAmounts(record); err != nil {
		return nil, err
	}

	values := DeriveValues(record)

	paymentDate, err := c.dates.Format(record.PaymentDate)
	if err != nil {
		return nil, err
	}
	nextDue, err := c.dates.NextDueDate(record.PaymentDate)
	if err != nil {
		return nil, err
	}

	words, err := RupeesInWords(values.Amount)
	if err != nil {
		return nil, err
	}

	return &Document{
		Title:  DocumentTitle,
		Header: c.branding,
		Admission: AdmissionDetails{
			RegistrationNo: record.RegistrationNo,
			StudentName:    record.StudentName,
			GuardianName:   GuardianNamePlaceholder,
			ClassName:      record.ClassName,
			CourseName:     record.CourseName,
			BatchName:      record.BatchName,
		},
		Details: ReceiptDetails{
			ReceiptNo:   record.ReceiptNo,
			PaymentDate: paymentDate,
			NextDueDate: nextDue,
		},
		LineItems:  buildLineItems(values),
		Footer:     buildFooter(record, words),
		Signatures: []string{"Student's Signature", "Authorized Signatory"},
		Values:     values,
	}, nil
}

func validateAmounts(record PaymentRecord) error {
	fields := []struct {
		name        string
		value       float64
		nonNegative bool
	}{
		{"totalFee", record.TotalFee, true},
		{"amount", record.AmountValue(), true},
		{"previousReceivedAmount", record.PreviousReceivedAmount, true},
		{"pendingAmountAfterPayment", record.PendingAmountAfterPayment, false},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidArgument, f.name)
		}
		if f.nonNegative && f.value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidArgument, f.name)
		}
		if math.Abs(f.value) > maxWordsAmount {
			return fmt.Errorf("%w: %s is too large", ErrInvalidArgument, f.name)
		}
	}
	return nil
}

func buildLineItems(v Values) []LineItem {
	rows := []struct {
		label   string
		amount  float64
		summary bool
	}{
		{LabelCourseFee, v.TotalFee, false},
		{LabelPreviousReceived, v.PreviousReceivedAmount, false},
		{LabelAmountReceived, v.Amount, false},
		{LabelTotalReceivedAmount, v.TotalReceivedAmount, true},
		{LabelDuesAmount, v.DuesAmount, true},
	}

	items := make([]LineItem, 0, LineItemCount)
	for _, r := range rows {
		items = append(items, LineItem{
			Label:   r.label,
			Amount:  r.amount,
			Display: FormatAmount(r.amount),
			Summary: r.summary,
		})
	}
	return items
}

func buildFooter(record PaymentRecord, words string) Footer {
	footer := Footer{
		AmountInWords: words,
		PaymentMode:   strings.TrimSpace(record.PaymentMode),
		TransactionID: optionalText(record.TransactionID),
		Remarks:       optionalText(record.Remarks),
	}

	footer.Rows = append(footer.Rows, FooterRow{Label: LabelPaymentMode, Value: footer.PaymentMode})
	if footer.TransactionID != "" {
		footer.Rows = append(footer.Rows, FooterRow{Label: LabelTransactionID, Value: footer.TransactionID})
	}
	if footer.Remarks != "" {
		footer.Rows = append(footer.Rows, FooterRow{Label: LabelRemarks, Value: footer.Remarks})
	}
	return footer
}
