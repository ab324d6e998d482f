// Package ports defines the interfaces the leads domain needs from
// persistence and outbound systems. Adapters live elsewhere and are wired in
// the composition root.
package ports

import (
	"context"
	"errors"
	"time"

	"container_leads_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by finders when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrTrackingCodeConflict is returned by OpportunityRepository.Create when
	// the tracking code is already used.
	ErrTrackingCodeConflict = errors.New("tracking code already in use")
	// ErrPhoneInUse is returned by ContactRepository.Update when another
	// contact already owns the phone.
	ErrPhoneInUse = errors.New("phone already belongs to another contact")
)

// ContactFilters narrows ContactRepository.List.
type ContactFilters struct {
	Search       string // matched against name, phone and email
	CreatedAfter *time.Time
	Limit        int
	Offset       int
}

// ContactRepository persists contacts. Create is an upsert keyed by phone:
// a second Create with a known phone updates that contact and returns it with
// its original ID. Concurrent creates for one phone rely on the store's
// atomic upsert.
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Contact, error)
	FindByPhone(ctx context.Context, phone string) (domain.Contact, error)
	Update(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	List(ctx context.Context, filters ContactFilters) ([]domain.Contact, error)
}

// OpportunityRepository persists opportunities. Create also asks the store to
// score the new row; a scoring failure is logged by the adapter and never
// fails the create.
type OpportunityRepository interface {
	Create(ctx context.Context, opportunity domain.Opportunity) (domain.Opportunity, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Opportunity, error)
	FindByContactID(ctx context.Context, contactID uuid.UUID) ([]domain.Opportunity, error)
	FindByTrackingCode(ctx context.Context, code string) (domain.Opportunity, error)
	Update(ctx context.Context, opportunity domain.Opportunity) (domain.Opportunity, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage domain.Stage) (domain.Opportunity, error)
}
