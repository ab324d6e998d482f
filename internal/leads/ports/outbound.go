package ports

import (
	"context"
	"time"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/pricing"
)

// TrackingCodes hands out tracking codes.
type TrackingCodes interface {
	Next(ctx context.Context) string
}

// LeadCreatedEnvelope is the body posted to the external webhook.
type LeadCreatedEnvelope struct {
	Event        string             `json:"event"`
	TrackingCode string             `json:"trackingCode"`
	Contact      ContactSummary     `json:"contact"`
	Opportunity  OpportunitySummary `json:"opportunity"`
	Source       string             `json:"source"`
	Timestamp    time.Time          `json:"timestamp"`
}

// ContactSummary is the contact part of the envelope.
type ContactSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// OpportunitySummary is the opportunity part of the envelope.
type OpportunitySummary struct {
	ID             string                `json:"id"`
	ServiceType    domain.ServiceType    `json:"serviceType"`
	PostalCode     string                `json:"postalCode,omitempty"`
	Stage          domain.Stage          `json:"stage"`
	EstimatedValue float64               `json:"estimatedValue"`
	Timeline       string                `json:"timeline,omitempty"`
	Budget         string                `json:"budget,omitempty"`
	Details        domain.ServiceDetails `json:"details,omitempty"`
}

// LeadWebhook relays lead.created to an external system. Best effort.
type LeadWebhook interface {
	Send(ctx context.Context, envelope LeadCreatedEnvelope) error
}

// QuoteArchive stores a copy of the quote a customer was shown. LoadQuote
// returns ErrNotFound when no snapshot was archived.
type QuoteArchive interface {
	ArchiveQuote(ctx context.Context, trackingCode string, createdAt time.Time, quote pricing.QuoteBreakdown) error
	LoadQuote(ctx context.Context, trackingCode string, createdAt time.Time) (pricing.QuoteBreakdown, error)
}
