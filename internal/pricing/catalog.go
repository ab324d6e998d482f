package pricing

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Location values accepted by the rental engine.
const (
	LocationCustomerSite = "customer-site"
	LocationWarehouse    = "warehouse"
)

// DurationStep is one row of the duration discount table.
type DurationStep struct {
	MinMonths int
	Rate      decimal.Decimal
}

// Catalog holds every constant the engine prices with.
type Catalog struct {
	TaxRate           decimal.Decimal
	MaxDiscountRate   decimal.Decimal
	MonthlyPrices     map[string]decimal.Decimal
	DurationDiscounts []DurationStep // ascending by MinMonths
	LocationDiscounts map[string]decimal.Decimal
	AccessTypes       []string
	PurchasePrices    map[string]map[string]decimal.Decimal
	Transport         TransportPolicy
}

// TransportPolicy prices delivery from the destination postal code.
type TransportPolicy struct {
	RatePerKm     decimal.Decimal
	DefaultKm     int
	LocalPrefixes []string
	ZoneKm        map[string]int
}

type catalogFile struct {
	TaxRate         string `yaml:"taxRate"`
	MaxDiscountRate string `yaml:"maxDiscountRate"`
	Rental          struct {
		MonthlyPrices     map[string]string `yaml:"monthlyPrices"`
		DurationDiscounts []struct {
			MinMonths int    `yaml:"minMonths"`
			Rate      string `yaml:"rate"`
		} `yaml:"durationDiscounts"`
		Locations map[string]string `yaml:"locations"`
	} `yaml:"rental"`
	Purchase struct {
		AccessTypes []string                     `yaml:"accessTypes"`
		Prices      map[string]map[string]string `yaml:"prices"`
	} `yaml:"purchase"`
	Transport struct {
		RatePerKm     string         `yaml:"ratePerKm"`
		DefaultKm     int            `yaml:"defaultKm"`
		LocalPrefixes []string       `yaml:"localPrefixes"`
		ZoneKm        map[string]int `yaml:"zoneKm"`
	} `yaml:"transport"`
}

var prefixPattern = regexp.MustCompile(`^[0-9]{1,5}$`)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		MonthlyPrices:     make(map[string]decimal.Decimal, len(f.Rental.MonthlyPrices)),
		LocationDiscounts: make(map[string]decimal.Decimal, len(f.Rental.Locations)),
		AccessTypes:       f.Purchase.AccessTypes,
		PurchasePrices:    make(map[string]map[string]decimal.Decimal, len(f.Purchase.Prices)),
		Transport: TransportPolicy{
			DefaultKm:     f.Transport.DefaultKm,
			LocalPrefixes: f.Transport.LocalPrefixes,
			ZoneKm:        f.Transport.ZoneKm,
		},
	}

	var err error
	if c.TaxRate, err = rate("taxRate", f.TaxRate); err != nil {
		return nil, err
	}
	if c.MaxDiscountRate, err = rate("maxDiscountRate", f.MaxDiscountRate); err != nil {
		return nil, err
	}
	if c.Transport.RatePerKm, err = amount("transport.ratePerKm", f.Transport.RatePerKm); err != nil {
		return nil, err
	}
	if c.Transport.DefaultKm < 0 {
		return nil, fmt.Errorf("catalog: transport.defaultKm must not be negative")
	}
	for _, p := range c.Transport.LocalPrefixes {
		if !prefixPattern.MatchString(p) {
			return nil, fmt.Errorf("catalog: local prefix %q is not numeric", p)
		}
	}

	if len(f.Rental.MonthlyPrices) == 0 {
		return nil, fmt.Errorf("catalog: rental.monthlyPrices is empty")
	}
	for size, v := range f.Rental.MonthlyPrices {
		if c.MonthlyPrices[size], err = amount("rental.monthlyPrices."+size, v); err != nil {
			return nil, err
		}
	}

	for loc, v := range f.Rental.Locations {
		if c.LocationDiscounts[loc], err = rate("rental.locations."+loc, v); err != nil {
			return nil, err
		}
	}
	if _, ok := c.LocationDiscounts[LocationWarehouse]; !ok {
		return nil, fmt.Errorf("catalog: rental.locations must define %s", LocationWarehouse)
	}

	for _, step := range f.Rental.DurationDiscounts {
		r, err := rate(fmt.Sprintf("rental.durationDiscounts[%d]", step.MinMonths), step.Rate)
		if err != nil {
			return nil, err
		}
		if step.MinMonths < 1 {
			return nil, fmt.Errorf("catalog: duration step minMonths must be at least 1")
		}
		c.DurationDiscounts = append(c.DurationDiscounts, DurationStep{MinMonths: step.MinMonths, Rate: r})
	}
	sort.Slice(c.DurationDiscounts, func(i, j int) bool {
		return c.DurationDiscounts[i].MinMonths < c.DurationDiscounts[j].MinMonths
	})

	for model, byAccess := range f.Purchase.Prices {
		row := make(map[string]decimal.Decimal, len(byAccess))
		for access, v := range byAccess {
			if !slices.Contains(c.AccessTypes, access) {
				return nil, fmt.Errorf("catalog: purchase.prices.%s uses unknown access type %q", model, access)
			}
			if row[access], err = amount("purchase.prices."+model+"."+access, v); err != nil {
				return nil, err
			}
		}
		c.PurchasePrices[model] = row
	}

	return c, nil
}

// DurationDiscount returns the step-table rate for whole months.
func (c *Catalog) DurationDiscount(months int) decimal.Decimal {
	result := decimal.Zero
	for _, step := range c.DurationDiscounts {
		if months < step.MinMonths {
			break
		}
		result = step.Rate
	}
	return result
}

// Sizes lists the rentable container sizes in a stable order.
func (c *Catalog) Sizes() []string {
	out := make([]string, 0, len(c.MonthlyPrices))
	for size := range c.MonthlyPrices {
		out = append(out, size)
	}
	sort.Strings(out)
	return out
}

// Locations lists the accepted rental locations in a stable order.
func (c *Catalog) Locations() []string {
	out := make([]string, 0, len(c.LocationDiscounts))
	for loc := range c.LocationDiscounts {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

func rate(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("catalog: %s: %w", field, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("catalog: %s must be between 0 and 1", field)
	}
	return d, nil
}

func amount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("catalog: %s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("catalog: %s must not be negative", field)
	}
	return d, nil
}
