package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/leads/service"
	"container_leads_backend/internal/leads/transport"
	"container_leads_backend/internal/pricing"
	"container_leads_backend/internal/validation"
	"container_leads_backend/platform/apperr"
	"container_leads_backend/platform/httpkit"
	"container_leads_backend/platform/metrics"
	"container_leads_backend/platform/sanitize"
	"container_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeadService is the part of service.Service the handlers call.
type LeadService interface {
	CreateLead(ctx context.Context, in service.CreateLeadInput, source string) (service.CreateLeadResult, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (domain.Opportunity, error)
	TrackByCode(ctx context.Context, code string) (domain.Opportunity, error)
	QuoteByCode(ctx context.Context, code string) (pricing.QuoteBreakdown, error)
}

type Handler struct {
	svc     LeadService
	engine  *pricing.Engine
	rules   *validation.Service
	val     *validator.Validator
	metrics *metrics.Pipeline
}

const (
	msgInvalidRequest   = "Solicitud inválida"
	msgValidationFailed = "Revisa los datos del formulario"
	msgInvalidQuote     = "No pudimos cotizar con los datos enviados"
	msgInvalidID        = "Identificador inválido"

	quoteRental   = "rental"
	quotePurchase = "purchase"
)

func New(svc LeadService, engine *pricing.Engine, rules *validation.Service, val *validator.Validator, m *metrics.Pipeline) *Handler {
	return &Handler{svc: svc, engine: engine, rules: rules, val: val, metrics: m}
}

// RegisterPublicRoutes mounts the routes the marketing site calls.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes/rental", h.QuoteRental)
	rg.POST("/quotes/purchase", h.QuotePurchase)
	rg.POST("/leads", h.CreateLead)
	rg.GET("/leads/track/:code", h.Track)
	rg.GET("/leads/track/:code/quote", h.TrackQuote)
}

// RegisterSalesRoutes mounts the pipeline management routes.
func (h *Handler) RegisterSalesRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/opportunities/:id/stage", h.UpdateStage)
}

func (h *Handler) QuoteRental(c *gin.Context) {
	var req transport.RentalQuoteRequest
	if !h.bind(c, &req) {
		return
	}

	quote, err := h.rentalQuote(req.Size, req.Duration, req.Location, req.PostalCode)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(quote))
}

func (h *Handler) QuotePurchase(c *gin.Context) {
	var req transport.PurchaseQuoteRequest
	if !h.bind(c, &req) {
		return
	}

	quote, err := h.purchaseQuote(req.Model, req.AccessType)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPurchaseQuoteResponse(quote))
}

func (h *Handler) CreateLead(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bind(c, &req) {
		return
	}
	sanitizeLead(&req)

	result := h.rules.ValidateLeadData(validation.LeadData{
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		Company:           req.Company,
		ServiceType:       req.ServiceType,
		PostalCode:        req.PostalCode,
		Budget:            req.Budget,
		HasLand:           req.HasLand,
		ContactPreference: req.ContactPreference,
		Size:              req.Size,
		Duration:          req.Duration,
		Location:          req.Location,
		Model:             req.Model,
	})
	if !result.Valid {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(result.Errors))
		return
	}

	serviceType, _ := domain.ParseServiceType(req.ServiceType)
	details, err := h.buildDetails(serviceType, req)
	if httpkit.HandleError(c, err) {
		return
	}

	created, err := h.svc.CreateLead(c.Request.Context(), service.CreateLeadInput{
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		Company:           req.Company,
		PostalCode:        req.PostalCode,
		Details:           details,
		Timeline:          req.Timeline,
		Budget:            req.Budget,
		ContactPreference: req.ContactPreference,
	}, req.Source)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.CreateLeadResponse{
		TrackingCode:   created.TrackingCode,
		ContactID:      created.Contact.ID,
		OpportunityID:  created.Opportunity.ID,
		EstimatedValue: created.Opportunity.EstimatedValue.InexactFloat64(),
	}
	if quote := domain.RentalQuote(created.Opportunity.Details); quote != nil {
		q := transport.ToQuoteResponse(*quote)
		resp.Quote = &q
	}
	httpkit.Created(c, resp)
}

func (h *Handler) Track(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	opportunity, err := h.svc.TrackByCode(c.Request.Context(), code)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTrackingResponse(opportunity))
}

// TrackQuote returns the quote snapshot archived at intake.
func (h *Handler) TrackQuote(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	quote, err := h.svc.QuoteByCode(c.Request.Context(), code)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(quote))
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateStageRequest
	if !h.bind(c, &req) {
		return
	}

	opportunity, err := h.svc.UpdateStage(c.Request.Context(), id, strings.TrimSpace(req.Stage))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToOpportunityResponse(opportunity))
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, validator.Messages(err))
		return false
	}
	return true
}

// buildDetails turns the flat form into the variant for the service type,
// pricing it when the service type carries a quote.
func (h *Handler) buildDetails(t domain.ServiceType, req transport.CreateLeadRequest) (domain.ServiceDetails, error) {
	switch t {
	case domain.ServiceStorage:
		storage, err := h.storageDetails(req)
		return storage, err
	case domain.ServiceStorageAndMoving:
		storage, err := h.storageDetails(req)
		if err != nil {
			return nil, err
		}
		return domain.StorageAndMovingDetails{StorageDetails: storage, MovingDetails: movingDetails(req)}, nil
	case domain.ServiceMoving:
		return movingDetails(req), nil
	case domain.ServiceStandardModel:
		return domain.StandardModelDetails{Model: req.Model, HasLand: req.HasLand}, nil
	case domain.ServiceCustom:
		return domain.CustomDetails{
			Rooms:        req.Rooms,
			Baths:        req.Baths,
			SquareMeters: req.SquareMeters,
			Description:  req.Description,
			HasLand:      req.HasLand,
		}, nil
	default:
		inquiry := domain.GeneralInquiryDetails{Message: req.Message}
		if req.Model != "" && req.AccessType != "" {
			purchase, err := h.purchaseQuote(req.Model, req.AccessType)
			if err != nil {
				return nil, err
			}
			inquiry.Purchase = &purchase
		}
		return inquiry, nil
	}
}

func (h *Handler) storageDetails(req transport.CreateLeadRequest) (domain.StorageDetails, error) {
	quote, err := h.rentalQuote(req.Size, req.Duration, req.Location, req.PostalCode)
	if err != nil {
		return domain.StorageDetails{}, err
	}
	return domain.StorageDetails{
		Size:     quote.Model,
		Duration: &quote.Duration,
		Location: quote.Location,
		Quote:    &quote,
	}, nil
}

func movingDetails(req transport.CreateLeadRequest) domain.MovingDetails {
	return domain.MovingDetails{
		OriginPostalCode:      req.OriginPostalCode,
		DestinationPostalCode: req.DestinationPostalCode,
		MoveDate:              req.MoveDate,
		Items:                 req.Items,
	}
}

func (h *Handler) rentalQuote(size, rawDuration, location, postalCode string) (pricing.QuoteBreakdown, error) {
	duration, err := pricing.ParseDuration(rawDuration)
	if err != nil {
		h.metrics.QuoteComputed(quoteRental, "invalid")
		return pricing.QuoteBreakdown{}, quoteError(err)
	}
	quote, err := h.engine.QuoteRental(pricing.RentalRequest{
		Size:       size,
		Duration:   duration,
		Location:   location,
		PostalCode: postalCode,
	})
	if err != nil {
		h.metrics.QuoteComputed(quoteRental, "invalid")
		return pricing.QuoteBreakdown{}, quoteError(err)
	}
	h.metrics.QuoteComputed(quoteRental, "ok")
	return quote, nil
}

func (h *Handler) purchaseQuote(model, accessType string) (pricing.PurchaseQuote, error) {
	quote, err := h.engine.QuotePurchase(pricing.PurchaseRequest{Model: model, AccessType: accessType})
	switch {
	case err != nil:
		h.metrics.QuoteComputed(quotePurchase, "invalid")
		return pricing.PurchaseQuote{}, quoteError(err)
	case quote.NeedsManualQuote:
		h.metrics.QuoteComputed(quotePurchase, "manual")
	default:
		h.metrics.QuoteComputed(quotePurchase, "ok")
	}
	return quote, nil
}

func quoteError(err error) error {
	var invalid *pricing.InvalidQuoteRequest
	if errors.As(err, &invalid) {
		return apperr.Wrap(apperr.KindBadRequest, msgInvalidQuote, err).WithDetails(map[string]string{
			"field":  invalid.Field,
			"reason": invalid.Reason,
		})
	}
	return err
}

func sanitizeLead(req *transport.CreateLeadRequest) {
	req.Name = sanitize.Text(req.Name)
	req.Company = sanitize.Text(req.Company)
	req.Timeline = sanitize.Text(req.Timeline)
	req.MoveDate = sanitize.Text(req.MoveDate)
	req.Items = sanitize.Text(req.Items)
	req.Description = sanitize.Text(req.Description)
	req.Message = sanitize.Text(req.Message)
	req.Source = strings.ToLower(strings.TrimSpace(req.Source))
	req.ServiceType = strings.TrimSpace(req.ServiceType)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
}
