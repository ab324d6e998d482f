package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransportCost prices delivery to a destination postal code.
type TransportCost func(postalCode string) decimal.Decimal

// FlatTransport charges the same amount everywhere. Mostly useful in tests.
func FlatTransport(amount decimal.Decimal) TransportCost {
	return func(string) decimal.Decimal { return amount }
}

// ZoneTransport resolves distance from the postal-code prefix table. Codes in
// the local zone travel free; unknown prefixes use the default distance.
func (p TransportPolicy) ZoneTransport() TransportCost {
	return func(postalCode string) decimal.Decimal {
		code := strings.TrimSpace(postalCode)
		for _, prefix := range p.LocalPrefixes {
			if strings.HasPrefix(code, prefix) {
				return decimal.Zero
			}
		}
		km := p.DefaultKm
		if len(code) >= 3 {
			if zone, ok := p.ZoneKm[code[:3]]; ok {
				km = zone
			}
		}
		return p.RatePerKm.Mul(decimal.NewFromInt(int64(km)))
	}
}
