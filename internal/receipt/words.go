package receipt

import (
	"fmt"
	"math"
)

// maxWordsAmount is the largest whole amount a float64 holds exactly.
const maxWordsAmount = 1 << 53

// AmountToWords converts a whole currency amount to English words using the
// Indian numbering system (Thousand, Lakh, Crore).
// Example: 150000 -> "One Lakh Fifty Thousand"
func AmountToWords(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: amount is not a finite number", ErrInvalidArgument)
	}
	if amount < 0 {
		return "", fmt.Errorf("%w: negative amount %v", ErrInvalidArgument, amount)
	}
	if amount != math.Trunc(amount) {
		return "", fmt.Errorf("%w: amount %v is not a whole number", ErrInvalidArgument, amount)
	}
	if amount > maxWordsAmount {
		return "", fmt.Errorf("%w: amount %v is too large", ErrInvalidArgument, amount)
	}

	return convertNumberToWords(int64(amount)), nil
}

// RupeesInWords returns the amount as printed in the receipt footer:
// "(Two Thousand Rupees Only)".
func RupeesInWords(amount float64) (string, error) {
	words, err := AmountToWords(amount)
	if err != nil {
		return "", err
	}
	return "(" + words + " Rupees Only)", nil
}

func convertNumberToWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	if n < 10 {
		return units[n]
	}

	if n < 20 {
		return teens[n-10]
	}

	if n < 100 {
		t := n / 10
		u := n % 10
		if u == 0 {
			return tens[t]
		}
		return tens[t] + " " + units[u]
	}

	if n < 1000 {
		return withMagnitude(n, 100, "Hundred")
	}

	if n < 100000 {
		return withMagnitude(n, 1000, "Thousand")
	}

	if n < 10000000 {
		return withMagnitude(n, 100000, "Lakh")
	}

	return withMagnitude(n, 10000000, "Crore")
}

// withMagnitude spells n as "<n/unit> <name>" followed by the remainder, if any.
func withMagnitude(n, unit int64, name string) string {
	words := convertNumberToWords(n/unit) + " " + name
	if remainder := n % unit; remainder != 0 {
		words += " " + convertNumberToWords(remainder)
	}
	return words
}

var units = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
}

var teens = []string{
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen",
	"Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
