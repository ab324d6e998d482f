// Package pricing computes rental and purchase quotes for shipping containers
// from a catalog of base prices, discount tables and transport policy.
//
// Every function here is pure: no I/O and no clock reads.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// RentalRequest asks for a rental quote.
type RentalRequest struct {
	Size       string
	Duration   Duration
	Location   string
	PostalCode string
}

// QuoteBreakdown is the itemized rental price. The line items are additive:
// Subtotal = RentalSubtotal + TransportCost and Total = Subtotal + Tax.
type QuoteBreakdown struct {
	Model                string          `json:"model"`
	MonthlyPrice         decimal.Decimal `json:"monthlyPrice"`
	Duration             Duration        `json:"duration"`
	DurationMonths       int             `json:"durationMonths"`
	Location             string          `json:"location"`
	PostalCode           string          `json:"postalCode"`
	CostBeforeDiscount   decimal.Decimal `json:"costBeforeDiscount"`
	DurationDiscountRate decimal.Decimal `json:"durationDiscountRate"`
	LocationDiscountRate decimal.Decimal `json:"locationDiscountRate"`
	TotalDiscountRate    decimal.Decimal `json:"totalDiscountRate"`
	DiscountCapped       bool            `json:"discountCapped"`
	DiscountAmount       decimal.Decimal `json:"discountAmount"`
	RentalSubtotal       decimal.Decimal `json:"rentalSubtotal"`
	TransportCost        decimal.Decimal `json:"transportCost"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	TaxRate              decimal.Decimal `json:"taxRate"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
}

// Engine prices quotes against one catalog.
type Engine struct {
	catalog   *Catalog
	transport TransportCost
}

// NewEngine builds an engine. A nil transport uses the catalog's zone table.
func NewEngine(catalog *Catalog, transport TransportCost) *Engine {
	if transport == nil {
		transport = catalog.Transport.ZoneTransport()
	}
	return &Engine{catalog: catalog, transport: transport}
}

// Catalog exposes the catalog the engine was built with.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// QuoteRental computes a rental breakdown. Unknown sizes, locations and
// malformed durations or postal codes return *InvalidQuoteRequest.
func (e *Engine) QuoteRental(req RentalRequest) (QuoteBreakdown, error) {
	size := strings.TrimSpace(req.Size)
	monthly, ok := e.catalog.MonthlyPrices[size]
	if !ok {
		return QuoteBreakdown{}, invalid("size", req.Size, "unknown container size")
	}
	location := strings.TrimSpace(req.Location)
	locationRate, ok := e.catalog.LocationDiscounts[location]
	if !ok {
		return QuoteBreakdown{}, invalid("location", req.Location, "unknown storage location")
	}
	if req.Duration.Months <= 0 {
		return QuoteBreakdown{}, invalid("duration", req.Duration.String(), "must be at least one month")
	}
	postal := strings.TrimSpace(req.PostalCode)
	if !postalCodePattern.MatchString(postal) {
		return QuoteBreakdown{}, invalid("postalCode", req.PostalCode, "must be 5 digits")
	}
	if location != LocationWarehouse {
		locationRate = decimal.Zero
	}

	months := req.Duration.Months
	durationRate := e.catalog.DurationDiscount(months)
	totalRate := durationRate.Add(locationRate)
	capped := false
	if totalRate.GreaterThan(e.catalog.MaxDiscountRate) {
		totalRate = e.catalog.MaxDiscountRate
		capped = true
	}

	cost := monthly.Mul(decimal.NewFromInt(int64(months)))
	discount := cost.Mul(totalRate).Round(2)
	rentalSubtotal := cost.Sub(discount)
	transport := e.transport(postal).Round(2)
	if transport.IsNegative() {
		transport = decimal.Zero
	}
	subtotal := rentalSubtotal.Add(transport)
	tax := subtotal.Mul(e.catalog.TaxRate).Round(0)

	return QuoteBreakdown{
		Model:                size,
		MonthlyPrice:         monthly,
		Duration:             req.Duration,
		DurationMonths:       months,
		Location:             location,
		PostalCode:           postal,
		CostBeforeDiscount:   cost,
		DurationDiscountRate: durationRate,
		LocationDiscountRate: locationRate,
		TotalDiscountRate:    totalRate,
		DiscountCapped:       capped,
		DiscountAmount:       discount,
		RentalSubtotal:       rentalSubtotal,
		TransportCost:        transport,
		Subtotal:             subtotal,
		TaxRate:              e.catalog.TaxRate,
		Tax:                  tax,
		Total:                subtotal.Add(tax),
	}, nil
}
