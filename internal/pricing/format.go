package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroupThousands renders the integer part of d with comma separators:
// 150000 becomes "150,000".
func GroupThousands(d decimal.Decimal) string {
	digits := d.Abs().Truncate(0).String()
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatMXN renders an amount the way customers see it: "$28,014.00".
func FormatMXN(d decimal.Decimal) string {
	rounded := d.Round(2)
	cents := rounded.Abs().StringFixed(2)
	return "$" + GroupThousands(rounded) + cents[len(cents)-3:]
}
