package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var budgetNoise = strings.NewReplacer("$", "", ",", "", " ", "", "mxn", "", "MXN", "", "pesos", "")

// ParseBudget reads the free-form budget answer. "$150,000 MXN" and
// "150000-200000" both parse; the lower bound of a range wins. ok is false
// when nothing numeric could be read.
func ParseBudget(raw string) (decimal.Decimal, bool) {
	cleaned := budgetNoise.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, false
	}
	if i := strings.IndexByte(cleaned, '-'); i > 0 {
		cleaned = cleaned[:i]
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil || value.IsNegative() {
		return decimal.Zero, false
	}
	return value, true
}
