package pricing

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// PurchaseRequest asks for the sale price of a container model.
type PurchaseRequest struct {
	Model      string
	AccessType string
}

// PurchaseQuote is either a price or a request for a manual quote.
type PurchaseQuote struct {
	Model            string          `json:"model"`
	AccessType       string          `json:"accessType"`
	Price            decimal.Decimal `json:"price"`
	NeedsManualQuote bool            `json:"needsManualQuote"`
}

// QuotePurchase looks the price up in the purchase table. A known model and
// access type with no table entry yields NeedsManualQuote instead of an error.
func (e *Engine) QuotePurchase(req PurchaseRequest) (PurchaseQuote, error) {
	model := strings.TrimSpace(req.Model)
	access := strings.TrimSpace(req.AccessType)

	_, rentable := e.catalog.MonthlyPrices[model]
	row, listed := e.catalog.PurchasePrices[model]
	if !rentable && !listed {
		return PurchaseQuote{}, invalid("model", req.Model, "unknown container model")
	}
	if !slices.Contains(e.catalog.AccessTypes, access) {
		return PurchaseQuote{}, invalid("accessType", req.AccessType, "unknown access type")
	}

	quote := PurchaseQuote{Model: model, AccessType: access}
	price, ok := row[access]
	if !ok {
		quote.NeedsManualQuote = true
		return quote, nil
	}
	quote.Price = price
	return quote, nil
}
