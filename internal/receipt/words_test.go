package receipt

import (
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{15, "Fifteen"},
		{20, "Twenty"},
		{99, "Ninety Nine"},
		{100, "One Hundred"},
		{305, "Three Hundred Five"},
		{999, "Nine Hundred Ninety Nine"},
		{2000, "Two Thousand"},
		{12000, "Twelve Thousand"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine"},
		{100000, "One Lakh"},
		{150000, "One Lakh Fifty Thousand"},
		{1234567, "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven"},
		{10000000, "One Crore"},
		{12500000, "One Crore Twenty Five Lakh"},
		{1000000000, "One Hundred Crore"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			words, err := AmountToWords(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, words)
		})
	}
}

func TestAmountToWords_NoDigitsAndNeverEmpty(t *testing.T) {
	samples := []float64{0, 1, 9, 10, 19, 21, 101, 1001, 10010, 100001, 9999999, 10000001, 123456789012}
	for n := 0.0; n < 2500; n += 7 {
		samples = append(samples, n)
	}

	for _, amount := range samples {
		words, err := AmountToWords(amount)
		assert.NoError(t, err)
		assert.NotEmpty(t, words)
		assert.False(t, strings.IndexFunc(words, unicode.IsDigit) >= 0, "digits in %q", words)
		assert.Equal(t, strings.TrimSpace(words), words)
		assert.NotContains(t, words, "  ")
	}
}

func TestAmountToWords_RejectsInvalidInput(t *testing.T) {
	for _, amount := range []float64{-1, -0.5, 10.5, math.NaN(), math.Inf(1), math.Inf(-1), 1e17} {
		_, err := AmountToWords(amount)
		assert.ErrorIs(t, err, ErrInvalidArgument, "amount %v", amount)
	}
}

func TestRupeesInWords(t *testing.T) {
	words, err := RupeesInWords(2000)
	assert.NoError(t, err)
	assert.Equal(t, "(Two Thousand Rupees Only)", words)

	_, err = RupeesInWords(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
