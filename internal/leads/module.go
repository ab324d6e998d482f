// Package leads provides the lead intake bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"fmt"

	"container_leads_backend/internal/events"
	apphttp "container_leads_backend/internal/http"
	"container_leads_backend/internal/leads/handler"
	"container_leads_backend/internal/leads/ports"
	"container_leads_backend/internal/leads/repository"
	"container_leads_backend/internal/leads/service"
	"container_leads_backend/internal/leads/tracking"
	"container_leads_backend/internal/pricing"
	"container_leads_backend/internal/validation"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/metrics"
	"container_leads_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the leads module reads.
type ModuleConfig interface {
	config.PricingConfig
	config.LeadsConfig
}

// ModuleDeps are the collaborators built by the composition root.
// Webhook, Archive and Reserver are optional.
type ModuleDeps struct {
	Pool      repository.PgxPool
	Bus       events.Bus
	Validator *validator.Validator
	Metrics   *metrics.Pipeline
	Log       *logger.Logger
	Webhook   ports.LeadWebhook
	Archive   ports.QuoteArchive
	Reserver  tracking.Reserver
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(cfg ModuleConfig, deps ModuleDeps) (*Module, error) {
	catalog, err := loadCatalog(cfg.GetPricingCatalogFile())
	if err != nil {
		return nil, err
	}
	engine := pricing.NewEngine(catalog, nil)

	var trackingOpts []tracking.Option
	if deps.Reserver != nil {
		trackingOpts = append(trackingOpts, tracking.WithReserver(deps.Reserver))
	}

	svc := service.New(service.Deps{
		Contacts:      repository.NewContactRepository(deps.Pool),
		Opportunities: repository.NewOpportunityRepository(deps.Pool, deps.Log),
		Tracking:      tracking.NewGenerator(cfg.GetTrackingPrefix(), trackingOpts...),
		Webhook:       deps.Webhook,
		Archive:       deps.Archive,
		Events:        deps.Bus,
		Metrics:       deps.Metrics,
		Log:           deps.Log,
		StepTimeout:   cfg.GetStepTimeout(),
	})

	h := handler.New(svc, engine, validation.NewService(validation.RulesForCatalog(catalog)), deps.Validator, deps.Metrics)

	deps.Log.Info("leads module initialized",
		"tracking_prefix", cfg.GetTrackingPrefix(),
		"catalog", catalogSource(cfg.GetPricingCatalogFile()),
		"webhook", deps.Webhook != nil,
		"archive", deps.Archive != nil,
	)

	return &Module{handler: h, service: svc}, nil
}

func loadCatalog(path string) (*pricing.Catalog, error) {
	if path == "" {
		return pricing.DefaultCatalog()
	}
	catalog, err := pricing.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load pricing catalog: %w", err)
	}
	return catalog, nil
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public intake routes and the sales routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.Public)
	m.handler.RegisterSalesRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
