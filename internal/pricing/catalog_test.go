package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogDurationSteps(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	cases := map[int]string{1: "0", 2: "0", 3: "0.05", 5: "0.05", 6: "0.10", 11: "0.10", 12: "0.15", 48: "0.15"}
	for months, want := range cases {
		got := catalog.DurationDiscount(months)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "months=%d want %s got %s", months, want, got)
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(greedyCatalog), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"20ft"}, catalog.Sizes())
}

func TestLoadCatalogEmptyPathUsesEmbedded(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Contains(t, catalog.Sizes(), "40ft-hc")
	assert.Equal(t, []string{LocationCustomerSite, LocationWarehouse}, catalog.Locations())
}

func TestParseCatalogRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"negative price": `
taxRate: "0.16"
maxDiscountRate: "0.5"
rental:
  monthlyPrices: {20ft: "-1"}
  locations: {warehouse: "0.05"}
transport: {ratePerKm: "1"}
`,
		"missing warehouse": `
taxRate: "0.16"
maxDiscountRate: "0.5"
rental:
  monthlyPrices: {20ft: "100"}
  locations: {customer-site: "0"}
transport: {ratePerKm: "1"}
`,
		"rate above one": `
taxRate: "1.6"
maxDiscountRate: "0.5"
rental:
  monthlyPrices: {20ft: "100"}
  locations: {warehouse: "0.05"}
transport: {ratePerKm: "1"}
`,
		"unknown access type": `
taxRate: "0.16"
maxDiscountRate: "0.5"
rental:
  monthlyPrices: {20ft: "100"}
  locations: {warehouse: "0.05"}
purchase:
  accessTypes: [standard]
  prices:
    20ft: {roof: "1"}
transport: {ratePerKm: "1"}
`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestZoneTransport(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	transport := catalog.Transport.ZoneTransport()

	assert.True(t, transport("83000").IsZero(), "local zone travels free")
	assert.True(t, decimal.NewFromInt(390*12).Equal(transport("85000")))
	assert.True(t, decimal.NewFromInt(250*12).Equal(transport("99999")), "unknown prefix uses default distance")
}
