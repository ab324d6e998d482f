package pricing

import (
	"strconv"
	"strings"
)

// OpenEndedMonths is the month count used for discounts and totals when the
// customer answers "12+".
const OpenEndedMonths = 12

// Duration is a rental length in whole months. OpenEnded marks the "12+"
// answer, which prices as 12 months but is displayed as "12+".
type Duration struct {
	Months    int
	OpenEnded bool
}

// Months returns a fixed duration.
func Months(n int) Duration {
	return Duration{Months: n}
}

// ParseDuration accepts a positive integer or the "12+" sentinel.
func ParseDuration(raw string) (Duration, error) {
	value := strings.TrimSpace(raw)
	if value == "12+" {
		return Duration{Months: OpenEndedMonths, OpenEnded: true}, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return Duration{}, invalid("duration", raw, "must be a positive number of months or 12+")
	}
	return Duration{Months: n}, nil
}

// String renders the duration the way the customer chose it.
func (d Duration) String() string {
	if d.OpenEnded {
		return "12+"
	}
	return strconv.Itoa(d.Months)
}

// MarshalText lets Duration travel as "6" or "12+" in JSON documents.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
