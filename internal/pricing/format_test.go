package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMXN(t *testing.T) {
	tests := map[string]string{
		"0":           "$0.00",
		"105":         "$105.00",
		"28014":       "$28,014.00",
		"4050.5":      "$4,050.50",
		"1234567.891": "$1,234,567.89",
	}
	for in, want := range tests {
		if got := FormatMXN(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMXN(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 50000: "50,000", 150000: "150,000", 1234567: "1,234,567"}
	for in, want := range cases {
		if got := GroupThousands(decimal.NewFromInt(in)); got != want {
			t.Errorf("GroupThousands(%d) = %q, want %q", in, got, want)
		}
	}
}
