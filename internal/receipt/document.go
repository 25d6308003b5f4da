package receipt

// Labels used in the line-item table and footer.
const (
	LabelCourseFee           = "Course Fee"
	LabelPreviousReceived    = "Previous Received Amount"
	LabelAmountReceived      = "Amount Received"
	LabelTotalReceivedAmount = "Total Received Amount"
	LabelDuesAmount          = "Dues Amount"

	LabelPaymentMode   = "Payment Mode"
	LabelTransactionID = "Transaction ID"
	LabelRemarks       = "Remarks"

	// GuardianNamePlaceholder is printed for the guardian because payment
	// records carry no guardian name.
	GuardianNamePlaceholder = "N/A"

	DocumentTitle = "FEE RECEIPT"
)

// LineItemCount is the fixed number of rows in the receipt table.
const LineItemCount = 5

// Branding identifies the institution in the receipt header.
type Branding struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	LogoPath string `json:"-"`
}

type AdmissionDetails struct {
	RegistrationNo string `json:"registration_no"`
	StudentName    string `json:"student_name"`
	GuardianName   string `json:"guardian_name"`
	ClassName      string `json:"class_name"`
	CourseName     string `json:"course_name"`
	BatchName      string `json:"batch_name"`
}

type ReceiptDetails struct {
	ReceiptNo   string `json:"receipt_no"`
	PaymentDate string `json:"payment_date"`
	NextDueDate string `json:"next_due_date"`
}

// LineItem is one row of the receipt table. Summary rows follow the
// itemized ones and are rendered emphasized.
type LineItem struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
	Summary bool    `json:"summary"`
}

type FooterRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Footer carries the amount in words and the payment rows. Rows always
// starts with the payment mode; transaction ID and remarks rows are only
// present when the record has a non-empty value for them.
type Footer struct {
	AmountInWords string      `json:"amount_in_words"`
	PaymentMode   string      `json:"payment_mode"`
	TransactionID string      `json:"transaction_id,omitempty"`
	Remarks       string      `json:"remarks,omitempty"`
	Rows          []FooterRow `json:"rows"`
}

// Document is the renderer-independent receipt. Every renderer draws the
// same sections in the same order.
type Document struct {
	Title      string           `json:"title"`
	Header     Branding         `json:"header"`
	Admission  AdmissionDetails `json:"admission_details"`
	Details    ReceiptDetails   `json:"receipt_details"`
	LineItems  []LineItem       `json:"line_items"`
	Footer     Footer           `json:"footer"`
	Signatures []string         `json:"signatures"`
	Values     Values           `json:"values"`
}

// ItemRows returns the itemized rows of the table.
func (d *Document) ItemRows() []LineItem {
	var rows []LineItem
	for _, item := range d.LineItems {
		if !item.Summary {
			rows = append(rows, item)
		}
	}
	return rows
}

// SummaryRows returns the summary rows of the table.
func (d *Document) SummaryRows() []LineItem {
	var rows []LineItem
	for _, item := range d.LineItems {
		if item.Summary {
			rows = append(rows, item)
		}
	}
	return rows
}
