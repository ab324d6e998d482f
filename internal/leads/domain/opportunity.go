package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOpportunityContactMissing = errors.New("opportunity requires a persisted contact")
	ErrTrackingCodeMissing       = errors.New("opportunity requires a tracking code")
	ErrNegativeEstimate          = errors.New("estimated value must not be negative")
)

// DefaultSource labels leads that arrive without an explicit source.
const DefaultSource = "website"

// Opportunity is one quote request tied to a contact.
type Opportunity struct {
	ID                uuid.UUID
	ContactID         uuid.UUID
	ServiceType       ServiceType
	PostalCode        string
	TrackingCode      string
	Details           ServiceDetails
	Timeline          string
	Budget            string
	ContactPreference string
	Stage             Stage
	EstimatedValue    decimal.Decimal
	Score             *int    // set by the store after scoring
	Temperature       *string // hot, warm or cold once scored
	Source            string
	CreatedAt         time.Time
}

// NewOpportunityParams is the input for NewOpportunity.
type NewOpportunityParams struct {
	ContactID         uuid.UUID
	PostalCode        string
	TrackingCode      string
	Details           ServiceDetails
	Timeline          string
	Budget            string
	ContactPreference string
	EstimatedValue    decimal.Decimal
	Source            string
}

// NewOpportunity builds an opportunity in stage new. The service type is taken
// from the details variant so the two can never disagree.
func NewOpportunity(p NewOpportunityParams, now time.Time) (Opportunity, error) {
	if p.ContactID == uuid.Nil {
		return Opportunity{}, ErrOpportunityContactMissing
	}
	code := strings.TrimSpace(p.TrackingCode)
	if code == "" {
		return Opportunity{}, ErrTrackingCodeMissing
	}
	if p.EstimatedValue.IsNegative() {
		return Opportunity{}, ErrNegativeEstimate
	}
	details := p.Details
	if details == nil {
		details = GeneralInquiryDetails{}
	}
	if !details.ServiceType().Valid() {
		return Opportunity{}, fmt.Errorf("unknown service details %T", details)
	}
	source := strings.TrimSpace(p.Source)
	if source == "" {
		source = DefaultSource
	}

	return Opportunity{
		ContactID:         p.ContactID,
		ServiceType:       details.ServiceType(),
		PostalCode:        strings.TrimSpace(p.PostalCode),
		TrackingCode:      code,
		Details:           details,
		Timeline:          strings.TrimSpace(p.Timeline),
		Budget:            strings.TrimSpace(p.Budget),
		ContactPreference: strings.TrimSpace(p.ContactPreference),
		Stage:             StageNew,
		EstimatedValue:    p.EstimatedValue,
		Source:            source,
		CreatedAt:         now.UTC(),
	}, nil
}
