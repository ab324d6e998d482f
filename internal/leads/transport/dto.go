package transport

import (
	"time"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/pricing"

	"github.com/google/uuid"
)

// Request DTOs. The validate tags only bound the shape of the payload; the
// customer-facing rules and their Spanish messages live in internal/validation.

type RentalQuoteRequest struct {
	Size       string `json:"size" validate:"required,max=20"`
	Duration   string `json:"duration" validate:"required,max=5"`
	Location   string `json:"location" validate:"required,max=30"`
	PostalCode string `json:"postalCode" validate:"required,len=5,numeric"`
}

type PurchaseQuoteRequest struct {
	Model      string `json:"model" validate:"required,max=20"`
	AccessType string `json:"accessType" validate:"required,max=30"`
}

type CreateLeadRequest struct {
	Name              string `json:"name" validate:"max=200"`
	Phone             string `json:"phone" validate:"max=30"`
	Email             string `json:"email" validate:"max=254"`
	Company           string `json:"company" validate:"max=200"`
	ServiceType       string `json:"serviceType" validate:"max=40"`
	PostalCode        string `json:"postalCode" validate:"max=10"`
	Timeline          string `json:"timeline" validate:"max=100"`
	Budget            string `json:"budget" validate:"max=50"`
	ContactPreference string `json:"contactPreference" validate:"omitempty,oneof=whatsapp email phone"`
	Source            string `json:"source" validate:"omitempty,max=50"`

	// storage, storage-and-moving
	Size     string `json:"size" validate:"max=20"`
	Duration string `json:"duration" validate:"max=5"`
	Location string `json:"location" validate:"max=30"`

	// moving, storage-and-moving
	OriginPostalCode      string `json:"originPostalCode" validate:"max=10"`
	DestinationPostalCode string `json:"destinationPostalCode" validate:"max=10"`
	MoveDate              string `json:"moveDate" validate:"max=30"`
	Items                 string `json:"items" validate:"max=2000"`

	// standard-model, custom, general-inquiry purchase
	Model        string   `json:"model" validate:"max=50"`
	AccessType   string   `json:"accessType" validate:"max=30"`
	HasLand      *bool    `json:"hasLand"`
	Rooms        *int     `json:"rooms" validate:"omitempty,min=0,max=50"`
	Baths        *int     `json:"baths" validate:"omitempty,min=0,max=50"`
	SquareMeters *float64 `json:"squareMeters" validate:"omitempty,gt=0,lt=100000"`

	Description string `json:"description" validate:"max=4000"`
	Message     string `json:"message" validate:"max=4000"`
}

type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required,max=20"`
}

// Response DTOs

type QuoteResponse struct {
	Model                string  `json:"model"`
	MonthlyPrice         float64 `json:"monthlyPrice"`
	Duration             string  `json:"duration"`
	DurationMonths       int     `json:"durationMonths"`
	Location             string  `json:"location"`
	PostalCode           string  `json:"postalCode"`
	CostBeforeDiscount   float64 `json:"costBeforeDiscount"`
	DurationDiscountRate float64 `json:"durationDiscountRate"`
	LocationDiscountRate float64 `json:"locationDiscountRate"`
	TotalDiscountRate    float64 `json:"totalDiscountRate"`
	DiscountCapped       bool    `json:"discountCapped"`
	DiscountAmount       float64 `json:"discountAmount"`
	RentalSubtotal       float64 `json:"rentalSubtotal"`
	TransportCost        float64 `json:"transportCost"`
	Subtotal             float64 `json:"subtotal"`
	TaxRate              float64 `json:"taxRate"`
	Tax                  float64 `json:"tax"`
	Total                float64 `json:"total"`
	TotalFormatted       string  `json:"totalFormatted"`
}

type PurchaseQuoteResponse struct {
	Model            string   `json:"model"`
	AccessType       string   `json:"accessType"`
	Price            *float64 `json:"price,omitempty"`
	NeedsManualQuote bool     `json:"needsManualQuote"`
}

type CreateLeadResponse struct {
	TrackingCode   string         `json:"trackingCode"`
	ContactID      uuid.UUID      `json:"contactId"`
	OpportunityID  uuid.UUID      `json:"opportunityId"`
	EstimatedValue float64        `json:"estimatedValue"`
	Quote          *QuoteResponse `json:"quote,omitempty"`
}

type TrackingResponse struct {
	TrackingCode string    `json:"trackingCode"`
	ServiceType  string    `json:"serviceType"`
	ServiceLabel string    `json:"serviceLabel"`
	Stage        string    `json:"stage"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OpportunityResponse struct {
	ID             uuid.UUID `json:"id"`
	TrackingCode   string    `json:"trackingCode"`
	ServiceType    string    `json:"serviceType"`
	Stage          string    `json:"stage"`
	EstimatedValue float64   `json:"estimatedValue"`
	Score          *int      `json:"score,omitempty"`
	Temperature    *string   `json:"temperature,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToQuoteResponse(q pricing.QuoteBreakdown) QuoteResponse {
	return QuoteResponse{
		Model:                q.Model,
		MonthlyPrice:         q.MonthlyPrice.InexactFloat64(),
		Duration:             q.Duration.String(),
		DurationMonths:       q.DurationMonths,
		Location:             q.Location,
		PostalCode:           q.PostalCode,
		CostBeforeDiscount:   q.CostBeforeDiscount.InexactFloat64(),
		DurationDiscountRate: q.DurationDiscountRate.InexactFloat64(),
		LocationDiscountRate: q.LocationDiscountRate.InexactFloat64(),
		TotalDiscountRate:    q.TotalDiscountRate.InexactFloat64(),
		DiscountCapped:       q.DiscountCapped,
		DiscountAmount:       q.DiscountAmount.InexactFloat64(),
		RentalSubtotal:       q.RentalSubtotal.InexactFloat64(),
		TransportCost:        q.TransportCost.InexactFloat64(),
		Subtotal:             q.Subtotal.InexactFloat64(),
		TaxRate:              q.TaxRate.InexactFloat64(),
		Tax:                  q.Tax.InexactFloat64(),
		Total:                q.Total.InexactFloat64(),
		TotalFormatted:       pricing.FormatMXN(q.Total),
	}
}

func ToPurchaseQuoteResponse(q pricing.PurchaseQuote) PurchaseQuoteResponse {
	resp := PurchaseQuoteResponse{
		Model:            q.Model,
		AccessType:       q.AccessType,
		NeedsManualQuote: q.NeedsManualQuote,
	}
	if !q.NeedsManualQuote {
		price := q.Price.InexactFloat64()
		resp.Price = &price
	}
	return resp
}

func ToTrackingResponse(o domain.Opportunity) TrackingResponse {
	return TrackingResponse{
		TrackingCode: o.TrackingCode,
		ServiceType:  string(o.ServiceType),
		ServiceLabel: o.ServiceType.Label(),
		Stage:        string(o.Stage),
		CreatedAt:    o.CreatedAt,
	}
}

func ToOpportunityResponse(o domain.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:             o.ID,
		TrackingCode:   o.TrackingCode,
		ServiceType:    string(o.ServiceType),
		Stage:          string(o.Stage),
		EstimatedValue: o.EstimatedValue.InexactFloat64(),
		Score:          o.Score,
		Temperature:    o.Temperature,
		CreatedAt:      o.CreatedAt,
	}
}
