// Package service holds the lead intake use cases: creating a lead from a
// validated submission, moving an opportunity through the sales stages and
// the public tracking lookup.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"container_leads_backend/internal/events"
	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/leads/ports"
	"container_leads_backend/internal/leads/tracking"
	"container_leads_backend/internal/pricing"
	"container_leads_backend/platform/apperr"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("container_leads_backend.internal.leads.service")

// Step names one stage of CreateLead. They double as metric and log labels.
type Step string

const (
	StepContact      Step = "contact"
	StepTrackingCode Step = "tracking_code"
	StepOpportunity  Step = "opportunity"
	StepWebhook      Step = "webhook"
	StepQuoteArchive Step = "quote_archive"
)

const (
	maxTrackingAttempts = 3
	defaultStepTimeout  = 10 * time.Second
	webhookEventName    = "lead.created"
)

// LeadCreationFailed is the only error CreateLead returns. Step is either
// StepContact or StepOpportunity; TrackingCode is empty when the failure
// happened before a code was drawn.
type LeadCreationFailed struct {
	Step         Step
	TrackingCode string
	Err          error
}

func (e *LeadCreationFailed) Error() string {
	if e.TrackingCode == "" {
		return fmt.Sprintf("lead creation failed at %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("lead creation failed at %s (%s): %v", e.Step, e.TrackingCode, e.Err)
}

func (e *LeadCreationFailed) Unwrap() error {
	return e.Err
}

// CreateLeadInput is a submission that already passed validation. Details is
// the service-type variant, with the rental quote attached when one was
// computed.
type CreateLeadInput struct {
	Name              string
	Phone             string
	Email             string
	Company           string
	PostalCode        string
	Details           domain.ServiceDetails
	Timeline          string
	Budget            string
	ContactPreference string
}

// CreateLeadResult is what the caller shows the customer.
type CreateLeadResult struct {
	Contact      domain.Contact
	Opportunity  domain.Opportunity
	TrackingCode string
}

// Deps are the collaborators of Service. Webhook and Archive are optional.
type Deps struct {
	Contacts      ports.ContactRepository
	Opportunities ports.OpportunityRepository
	Tracking      ports.TrackingCodes
	Webhook       ports.LeadWebhook
	Archive       ports.QuoteArchive
	Events        events.Bus
	Metrics       *metrics.Pipeline
	Log           *logger.Logger
	StepTimeout   time.Duration
	Now           func() time.Time
}

type Service struct {
	contacts      ports.ContactRepository
	opportunities ports.OpportunityRepository
	tracking      ports.TrackingCodes
	webhook       ports.LeadWebhook
	archive       ports.QuoteArchive
	eventBus      events.Bus
	metrics       *metrics.Pipeline
	log           *logger.Logger
	stepTimeout   time.Duration
	now           func() time.Time
}

func New(d Deps) *Service {
	s := &Service{
		contacts:      d.Contacts,
		opportunities: d.Opportunities,
		tracking:      d.Tracking,
		webhook:       d.Webhook,
		archive:       d.Archive,
		eventBus:      d.Events,
		metrics:       d.Metrics,
		log:           d.Log,
		stepTimeout:   d.StepTimeout,
		now:           d.Now,
	}
	if s.stepTimeout <= 0 {
		s.stepTimeout = defaultStepTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s
}

// CreateLead records the contact and the opportunity, then runs the best
// effort side effects. Only the two inserts can fail the call.
func (s *Service) CreateLead(ctx context.Context, in CreateLeadInput, source string) (CreateLeadResult, error) {
	ctx, span := tracer.Start(ctx, "leads.create_lead")
	defer span.End()

	now := s.now()

	draft, err := domain.NewContact(domain.NewContactParams{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Company: in.Company,
	}, now)
	if err != nil {
		return CreateLeadResult{}, s.fail(ctx, StepContact, "", err)
	}
	contact, err := runStep(ctx, s, StepContact, func(ctx context.Context) (domain.Contact, error) {
		return s.contacts.Create(ctx, draft)
	})
	if err != nil {
		return CreateLeadResult{}, s.fail(ctx, StepContact, "", err)
	}

	details := in.Details
	if details == nil {
		details = domain.GeneralInquiryDetails{}
	}
	estimate := EstimateValue(details, in.Budget)

	var (
		opportunity domain.Opportunity
		code        string
	)
	for attempt := 1; ; attempt++ {
		code, _ = runStep(ctx, s, StepTrackingCode, func(ctx context.Context) (string, error) {
			return s.tracking.Next(ctx), nil
		})

		oppDraft, err := domain.NewOpportunity(domain.NewOpportunityParams{
			ContactID:         contact.ID,
			PostalCode:        in.PostalCode,
			TrackingCode:      code,
			Details:           details,
			Timeline:          in.Timeline,
			Budget:            in.Budget,
			ContactPreference: in.ContactPreference,
			EstimatedValue:    estimate,
			Source:            source,
		}, now)
		if err != nil {
			return CreateLeadResult{}, s.fail(ctx, StepOpportunity, code, err)
		}

		opportunity, err = runStep(ctx, s, StepOpportunity, func(ctx context.Context) (domain.Opportunity, error) {
			return s.opportunities.Create(ctx, oppDraft)
		})
		if err == nil {
			break
		}
		if errors.Is(err, ports.ErrTrackingCodeConflict) && attempt < maxTrackingAttempts {
			s.log.WithContext(ctx).Warn("tracking code collision, drawing a new one",
				"tracking_code", code, "attempt", attempt)
			continue
		}
		return CreateLeadResult{}, s.fail(ctx, StepOpportunity, code, err)
	}

	span.SetAttributes(
		attribute.String("leads.tracking_code", code),
		attribute.String("leads.service_type", string(opportunity.ServiceType)),
	)
	s.metrics.LeadCreated(string(opportunity.ServiceType))

	s.relayWebhook(ctx, contact, opportunity)
	s.archiveQuote(ctx, opportunity)
	s.publishCreated(ctx, contact, opportunity)

	return CreateLeadResult{
		Contact:      contact,
		Opportunity:  opportunity,
		TrackingCode: code,
	}, nil
}

// UpdateStage moves an opportunity to another stage. Terminal stages are
// final; setting the current stage again is a no-op. The store re-checks the
// terminal rule on write, so a concurrent close still wins.
func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, rawStage string) (domain.Opportunity, error) {
	next, ok := domain.ParseStage(rawStage)
	if !ok {
		return domain.Opportunity{}, apperr.Validation("Etapa desconocida").WithDetails([]string{rawStage})
	}

	current, err := s.opportunities.FindByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Opportunity{}, apperr.NotFound("Oportunidad no encontrada")
	}
	if err != nil {
		return domain.Opportunity{}, apperr.Wrap(apperr.KindInternal, "load opportunity", err)
	}
	if !current.Stage.CanTransitionTo(next) {
		return domain.Opportunity{}, apperr.Wrap(apperr.KindConflict,
			fmt.Sprintf("La oportunidad ya está en etapa %s", current.Stage), domain.ErrInvalidTransition)
	}
	if current.Stage == next {
		return current, nil
	}

	updated, err := s.opportunities.UpdateStage(ctx, id, next)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Opportunity{}, apperr.NotFound("Oportunidad no encontrada")
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return domain.Opportunity{}, apperr.Wrap(apperr.KindConflict,
			"La oportunidad ya fue cerrada", domain.ErrInvalidTransition)
	}
	if err != nil {
		return domain.Opportunity{}, apperr.Wrap(apperr.KindInternal, "update stage", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OpportunityStageChanged{
			BaseEvent:     events.NewBaseEvent(),
			OpportunityID: updated.ID,
			TrackingCode:  updated.TrackingCode,
			OldStage:      string(current.Stage),
			NewStage:      string(updated.Stage),
		})
	}
	return updated, nil
}

// TrackByCode is the public status lookup.
func (s *Service) TrackByCode(ctx context.Context, code string) (domain.Opportunity, error) {
	if !tracking.Pattern.MatchString(code) {
		return domain.Opportunity{}, apperr.NotFound("Código de seguimiento no encontrado")
	}
	o, err := s.opportunities.FindByTrackingCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Opportunity{}, apperr.NotFound("Código de seguimiento no encontrado")
	}
	if err != nil {
		return domain.Opportunity{}, apperr.Wrap(apperr.KindInternal, "track opportunity", err)
	}
	return o, nil
}

// QuoteByCode returns the quote archived when the lead was created.
func (s *Service) QuoteByCode(ctx context.Context, code string) (pricing.QuoteBreakdown, error) {
	o, err := s.TrackByCode(ctx, code)
	if err != nil {
		return pricing.QuoteBreakdown{}, err
	}
	if s.archive == nil {
		return pricing.QuoteBreakdown{}, apperr.NotFound("Cotización no disponible")
	}
	quote, err := s.archive.LoadQuote(ctx, o.TrackingCode, o.CreatedAt)
	if errors.Is(err, ports.ErrNotFound) {
		return pricing.QuoteBreakdown{}, apperr.NotFound("Cotización no disponible")
	}
	if err != nil {
		return pricing.QuoteBreakdown{}, apperr.Wrap(apperr.KindInternal, "load quote snapshot", err)
	}
	return quote, nil
}

func (s *Service) fail(ctx context.Context, step Step, code string, err error) error {
	s.log.WithContext(ctx).Error("lead creation failed",
		"step", string(step),
		"tracking_code", code,
		"error", err,
	)
	return &LeadCreationFailed{Step: step, TrackingCode: code, Err: err}
}

func (s *Service) relayWebhook(ctx context.Context, c domain.Contact, o domain.Opportunity) {
	if s.webhook == nil {
		return
	}
	envelope := ports.LeadCreatedEnvelope{
		Event:        webhookEventName,
		TrackingCode: o.TrackingCode,
		Contact: ports.ContactSummary{
			ID:      c.ID.String(),
			Name:    c.Name,
			Phone:   c.Phone,
			Email:   c.Email,
			Company: c.Company,
		},
		Opportunity: ports.OpportunitySummary{
			ID:             o.ID.String(),
			ServiceType:    o.ServiceType,
			PostalCode:     o.PostalCode,
			Stage:          o.Stage,
			EstimatedValue: o.EstimatedValue.InexactFloat64(),
			Timeline:       o.Timeline,
			Budget:         o.Budget,
			Details:        o.Details,
		},
		Source:    o.Source,
		Timestamp: s.now().UTC(),
	}
	_, err := runStep(ctx, s, StepWebhook, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.webhook.Send(ctx, envelope)
	})
	if err != nil {
		s.log.WithContext(ctx).DegradedStep(string(StepWebhook), o.TrackingCode, err)
	}
}

func (s *Service) archiveQuote(ctx context.Context, o domain.Opportunity) {
	quote := domain.RentalQuote(o.Details)
	if s.archive == nil || quote == nil {
		return
	}
	_, err := runStep(ctx, s, StepQuoteArchive, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.archive.ArchiveQuote(ctx, o.TrackingCode, o.CreatedAt, *quote)
	})
	if err != nil {
		s.log.WithContext(ctx).DegradedStep(string(StepQuoteArchive), o.TrackingCode, err)
	}
}

func (s *Service) publishCreated(ctx context.Context, c domain.Contact, o domain.Opportunity) {
	if s.eventBus == nil {
		return
	}
	var purchase *pricing.PurchaseQuote
	if inquiry, ok := o.Details.(domain.GeneralInquiryDetails); ok {
		purchase = inquiry.Purchase
	}
	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:         events.NewBaseEvent(),
		OpportunityID:     o.ID,
		ContactID:         c.ID,
		TrackingCode:      o.TrackingCode,
		ServiceType:       string(o.ServiceType),
		ServiceLabel:      o.ServiceType.Label(),
		ContactName:       c.Name,
		ContactPhone:      c.Phone,
		ContactEmail:      c.Email,
		ContactPreference: o.ContactPreference,
		PostalCode:        o.PostalCode,
		EstimatedValue:    o.EstimatedValue,
		Quote:             domain.RentalQuote(o.Details),
		Purchase:          purchase,
		Score:             o.Score,
		Temperature:       o.Temperature,
		Source:            o.Source,
	})
}

// runStep bounds fn with the step timeout and records its span, duration and
// failure count.
func runStep[T any](ctx context.Context, s *Service, step Step, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "leads.step."+string(step))
	defer span.End()

	start := time.Now()
	v, err := fn(ctx)
	s.metrics.ObserveStep(string(step), time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.StepFailed(string(step))
	}
	return v, err
}
