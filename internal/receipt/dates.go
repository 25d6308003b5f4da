package receipt

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayDateLayout is the DD/MM/YYYY layout printed on receipts.
	DisplayDateLayout = "02/01/2006"

	// DefaultDueDays is the offset between a payment and the next installment.
	DefaultDueDays = 15
)

// Layouts accepted for payment dates. Fractional seconds are accepted by the
// datetime layouts even though they are not spelled out.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DateFormatter turns ISO-8601 payment dates into receipt dates.
//
// The printed date is the calendar date of the instant in Location, so a
// payment at 2025-09-02T23:30:00Z prints as 03/09/2025 in Asia/Kolkata but
// 02/09/2025 in UTC. A nil Location means UTC and a non-positive DueDays
// means DefaultDueDays.
type DateFormatter struct {
	Location *time.Location
	DueDays  int
}

func (f DateFormatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f DateFormatter) dueDays() int {
	if f.DueDays <= 0 {
		return DefaultDueDays
	}
	return f.DueDays
}

// ParseTimestamp returns the instant denoted by an ISO-8601 date or datetime
// string. Values without a zone offset are read in the formatter's location.
func (f DateFormatter) ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}

	loc := f.location()
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date", ErrInvalidDate, value)
}

// Parse returns the calendar date (midnight in the formatter's location)
// denoted by an ISO-8601 date or datetime string.
func (f DateFormatter) Parse(value string) (time.Time, error) {
	t, err := f.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, err
	}
	loc := f.location()
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// Format renders an ISO-8601 date as DD/MM/YYYY.
func (f DateFormatter) Format(value string) (string, error) {
	date, err := f.Parse(value)
	if err != nil {
		return "", err
	}
	return date.Format(DisplayDateLayout), nil
}

// NextDueDate adds DueDays calendar days to the payment date and formats the
// result as DD/MM/YYYY. Month, year and leap-day rollover follow time.AddDate.
func (f DateFormatter) NextDueDate(paymentDate string) (string, error) {
	date, err := f.Parse(paymentDate)
	if err != nil {
		return "", err
	}
	return date.AddDate(0, 0, f.dueDays()).Format(DisplayDateLayout), nil
}

// FormatDate formats an ISO-8601 date as DD/MM/YYYY using the UTC calendar.
func FormatDate(value string) (string, error) {
	return DateFormatter{}.Format(value)
}

// NextDueDate returns the UTC payment date plus DefaultDueDays as DD/MM/YYYY.
func NextDueDate(paymentDate string) (string, error) {
	return DateFormatter{}.NextDueDate(paymentDate)
}
