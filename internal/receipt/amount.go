package receipt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxFormatAmount keeps amount*100 within int64.
const maxFormatAmount = math.MaxInt64 / 1000

// FormatAmount renders a currency amount with Indian digit grouping
// (12,34,567). Whole amounts print without decimals; anything else is
// rounded to paise and printed with two decimals. Values whose paise do not
// fit in an int64 print as "-".
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || math.Abs(amount) > maxFormatAmount {
		return "-"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	paise := cents % 100

	out := sign + groupIndian(strconv.FormatInt(whole, 10))
	if paise != 0 {
		out += fmt.Sprintf(".%02d", paise)
	}
	return out
}

// groupIndian inserts separators after the last three digits and then every
// two digits: 10000000 -> 1,00,00,000.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",") + "," + tail
}
