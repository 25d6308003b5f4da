package receipt

import "math"

// duesTolerance absorbs float noise below one paisa when comparing dues.
const duesTolerance = 0.005

// Values holds the numbers printed on a receipt.
//
// DuesAmount is the backend's PendingAmountAfterPayment, passed through as
// the system of record. ExpectedDuesAmount is what TotalFee and the received
// totals imply; DuesMismatch reports when the two disagree.
type Values struct {
	TotalFee               float64 `json:"total_fee"`
	PreviousReceivedAmount float64 `json:"previous_received_amount"`
	Amount                 float64 `json:"amount"`
	TotalReceivedAmount    float64 `json:"total_received_amount"`
	DuesAmount             float64 `json:"dues_amount"`
	ExpectedDuesAmount     float64 `json:"expected_dues_amount"`
	DuesMismatch           bool    `json:"dues_mismatch"`
}

// DeriveValues computes the receipt totals for a payment record.
func DeriveValues(r PaymentRecord) Values {
	amount := r.AmountValue()
	totalReceived := r.PreviousReceivedAmount + amount
	expectedDues := r.TotalFee - totalReceived

	return Values{
		TotalFee:               r.TotalFee,
		PreviousReceivedAmount: r.PreviousReceivedAmount,
		Amount:                 amount,
		TotalReceivedAmount:    totalReceived,
		DuesAmount:             r.PendingAmountAfterPayment,
		ExpectedDuesAmount:     expectedDues,
		DuesMismatch:           math.Abs(expectedDues-r.PendingAmountAfterPayment) > duesTolerance,
	}
}
