package scraper

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	testCases := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{raw: "£51.77", expected: 51.77, ok: true},
		{raw: "51.77", expected: 51.77, ok: true},
		{raw: "£ 1 024.00", expected: 1024.00, ok: true},
		{raw: "1.234,56", expected: 1234.56, ok: true},
		{raw: "1,234.56", expected: 1234.56, ok: true},
		{raw: "12,50", expected: 12.50, ok: true},
		{raw: "1.234.567,89", expected: 1234567.89, ok: true},
		{raw: "1,234,567.89", expected: 1234567.89, ok: true},
		{raw: "42", expected: 42, ok: true},
		{raw: "", ok: false},
		{raw: "N/A", ok: false},
		{raw: "free", ok: false},
		{raw: "£", ok: false},
		{raw: "1,2,3", ok: false},
		{raw: "..", ok: false},
	}

	for _, tc := range testCases {
		value, ok := NormalizePrice(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		if tc.ok {
			assert.InDelta(t, tc.expected, value, 0.0001, "raw=%q", tc.raw)
		}
	}
}

func TestNormalizePriceIsPure(t *testing.T) {
	// Same input, same output, every time
	for i := 0; i < 3; i++ {
		value, ok := NormalizePrice("£51.77")
		assert.True(t, ok)
		assert.Equal(t, 51.77, value)
	}
}

func TestRepairCurrency(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "mojibake pound",
			in:       "Â£51.77",
			expected: "£51.77",
		},
		{
			name:     "valid pound untouched",
			in:       "£51.77",
			expected: "£51.77",
		},
		{
			name:     "stray latin-1 byte",
			in:       "\xa351.77",
			expected: "£51.77",
		},
		{
			name:     "no currency at all",
			in:       "51.77",
			expected: "51.77",
		},
		{
			name:     "mixed valid and stray",
			in:       "£10 and \xa320",
			expected: "£10 and £20",
		},
		{
			name:     "franc sign untouched",
			in:       "₣ 12,50",
			expected: "₣ 12,50",
		},
		{
			name:     "sigma untouched",
			in:       "Σ 9.99",
			expected: "Σ 9.99",
		},
		{
			name:     "multibyte preserved next to stray byte",
			in:       "₣ and \xa35",
			expected: "₣ and £5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repaired := RepairCurrency(tc.in)
			assert.Equal(t, tc.expected, repaired)
			assert.True(t, utf8.ValidString(repaired))
		})
	}
}

func TestRepairCurrencyIdempotent(t *testing.T) {
	once := RepairCurrency("Â£51.77")
	assert.Equal(t, once, RepairCurrency(once))
}
