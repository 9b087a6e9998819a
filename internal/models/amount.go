package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a formatted cell value into a decimal. Parenthesized
// numbers are negative, thousands separators are stripped. Anything that still
// fails to parse degrades to zero: a single malformed cell must never fail a
// batch.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}

// FormatAmount renders a decimal as a fixed two-decimal, thousands-separated
// string ("1234567.8" -> "1,234,567.80").
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-3:]

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(fracPart)
	return b.String()
}

var dateLayouts = []string{
	"02-Jan-2006",
	"2-Jan-2006",
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses the date formats seen in remittance exports. Month names
// are matched case-insensitively ("01-JAN-2024"). Returns ok=false for
// unparsable values; callers treat those as epoch / no match, never as errors.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	normalized := normalizeMonthCase(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeMonthCase rewrites "01-JAN-2024" as "01-Jan-2024" so the stdlib
// layout can match it.
func normalizeMonthCase(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	month := strings.ToLower(parts[1])
	if len(month) > 0 && month[0] >= 'a' && month[0] <= 'z' {
		month = strings.ToUpper(month[:1]) + month[1:]
	}
	return parts[0] + "-" + month + "-" + parts[2]
}
