package scraper

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// NormalizePrice converts a localized price string such as "£51.77" or
// "1.234,56" into a float64. The second return value is false when the input
// is empty or cannot be parsed as a number; that is an absent value, not an
// error. The function is pure.
func NormalizePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	// Keep only digits and the two candidate separators
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(canonicalDecimal(cleaned), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// canonicalDecimal rewrites a digits-and-separators string into the canonical
// period-decimal form. The rules, in order:
//
//	both separators, comma rightmost  -> periods are thousands, comma is decimal
//	both separators, period rightmost -> commas are thousands
//	comma only                        -> comma is decimal
//	period only or no separator       -> already canonical
//
// Strings that still hold more than one separator after rewriting (e.g.
// "1,2,3") fail at the parse step in NormalizePrice.
func canonicalDecimal(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastPeriod := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastPeriod >= 0 && lastComma > lastPeriod:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastComma >= 0 && lastPeriod >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// mojibakePound is the pound sign as UTF-8 bytes mis-decoded through
// Latin-1/CP1252 and re-encoded: "Â£".
const mojibakePound = "Â£"

// poundSign is the canonical U+00A3 form
const poundSign = "£"

// RepairCurrency fixes the two broken spellings of the pound sign that show
// up in scraped price text: the "Â£" mojibake sequence, and a stray Latin-1
// 0xA3 byte that never went through UTF-8 encoding. Well-formed text is
// returned unchanged; multibyte characters whose encoding happens to contain
// an 0xA3 byte (₣, Σ, ...) are never touched.
func RepairCurrency(s string) string {
	s = strings.ReplaceAll(s, mojibakePound, poundSign)
	if utf8.ValidString(s) || !strings.Contains(s, "\xa3") {
		return s
	}

	// Walk rune by rune so only bytes that are not part of a valid rune
	// get rewritten.
	var b strings.Builder
	b.Grow(len(s) + 1)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if s[i] == 0xA3 {
				b.WriteString(poundSign)
			} else {
				b.WriteByte(s[i])
			}
			i++
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
