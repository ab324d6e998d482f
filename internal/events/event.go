package events

import (
	"container_leads_backend/internal/pricing"
	"container_leads_backend/platform/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published once a lead is stored. It carries everything the
// notification channels need so they never read the database.
type LeadCreated struct {
	BaseEvent
	OpportunityID     uuid.UUID               `json:"opportunityId"`
	ContactID         uuid.UUID               `json:"contactId"`
	TrackingCode      string                  `json:"trackingCode"`
	ServiceType       string                  `json:"serviceType"`
	ServiceLabel      string                  `json:"serviceLabel"`
	ContactName       string                  `json:"contactName"`
	ContactPhone      string                  `json:"contactPhone"`
	ContactEmail      string                  `json:"contactEmail,omitempty"`
	ContactPreference string                  `json:"contactPreference,omitempty"`
	PostalCode        string                  `json:"postalCode,omitempty"`
	EstimatedValue    decimal.Decimal         `json:"estimatedValue"`
	Quote             *pricing.QuoteBreakdown `json:"quote,omitempty"`
	Purchase          *pricing.PurchaseQuote  `json:"purchase,omitempty"`
	Score             *int                    `json:"score,omitempty"`
	Temperature       *string                 `json:"temperature,omitempty"`
	Source            string                  `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// OpportunityStageChanged is published after a stage transition is stored.
type OpportunityStageChanged struct {
	BaseEvent
	OpportunityID uuid.UUID `json:"opportunityId"`
	TrackingCode  string    `json:"trackingCode"`
	OldStage      string    `json:"oldStage"`
	NewStage      string    `json:"newStage"`
}

func (e OpportunityStageChanged) EventName() string { return "leads.opportunity.stage_changed" }
