package receipt

import "strings"

// PaymentRecord is a single fee payment as delivered by the school backend.
// Field names follow the backend's JSON payload.
//
// The backend is expected to keep
// PreviousReceivedAmount + Amount + PendingAmountAfterPayment == TotalFee;
// nothing here enforces it.
type PaymentRecord struct {
	StudentName    string `json:"studentName"`
	RegistrationNo string `json:"registrationNo"`
	ClassName      string `json:"className"`
	CourseName     string `json:"courseName"`
	BatchName      string `json:"batchName"`

	TotalFee                  float64  `json:"totalFee"`
	PaymentDate               string   `json:"paymentDate"`
	Amount                    *float64 `json:"amount"`
	PreviousReceivedAmount    float64  `json:"previousReceivedAmount"`
	PendingAmountAfterPayment float64  `json:"pendingAmountAfterPayment"`

	PaymentMode   string  `json:"paymentMode"`
	ReceiptNo     string  `json:"receiptNo"`
	TransactionID *string `json:"transactionId,omitempty"`
	Remarks       *string `json:"remarks,omitempty"`
}

// AmountValue returns the amount received in this transaction, or 0 when absent.
func (r PaymentRecord) AmountValue() float64 {
	if r.Amount == nil {
		return 0
	}
	return *r.Amount
}

// MissingFields lists the JSON names of the fields a receipt cannot be
// rendered without.
func (r PaymentRecord) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"studentName", r.StudentName},
		{"registrationNo", r.RegistrationNo},
		{"receiptNo", r.ReceiptNo},
		{"paymentDate", r.PaymentDate},
		{"paymentMode", r.PaymentMode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if r.Amount == nil {
		missing = append(missing, "amount")
	}
	return missing
}

// optionalText returns the trimmed value of an optional field, "" when absent.
func optionalText(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
