package notification

import (
	"context"

	"container_leads_backend/internal/email"
	"container_leads_backend/internal/events"
	"container_leads_backend/internal/scheduler"
	"container_leads_backend/internal/whatsapp"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/metrics"
)

// Module wires the lead fan-out to the event bus. With an enqueuer the
// fan-out runs in the worker process, otherwise inline in the bus goroutine.
type Module struct {
	dispatcher *Dispatcher
	enqueuer   scheduler.LeadNotificationEnqueuer
	log        *logger.Logger
}

// Channels builds every configured channel. Unconfigured collaborators are
// left out rather than failing at send time.
func Channels(cfg config.NotificationConfig, sender email.Sender, chat *whatsapp.Client, log *logger.Logger) []Channel {
	var channels []Channel
	if email.Enabled(sender) {
		channels = append(channels, NewCustomerEmail(sender, cfg.GetAppBaseURL(), log))
		if cfg.GetSalesTeamEmail() != "" {
			channels = append(channels, NewSalesEmail(sender, cfg.GetSalesTeamEmail(), log))
		}
	}
	if chat.Enabled() {
		channels = append(channels, NewCustomerWhatsApp(chat, cfg.GetAppBaseURL(), log))
	}
	if url := cfg.GetTeamAlertWebhookURL(); url != "" {
		channels = append(channels, NewTeamAlert(url, log))
	}
	return channels
}

func New(dispatcher *Dispatcher, log *logger.Logger) *Module {
	return &Module{dispatcher: dispatcher, log: log}
}

// SetEnqueuer moves fan-outs onto the asynq queue.
func (m *Module) SetEnqueuer(e scheduler.LeadNotificationEnqueuer) { m.enqueuer = e }

func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to the lead events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.OpportunityStageChanged{}.EventName(), m)
}

// Handle implements events.Handler. It never returns an error: a failed
// fan-out must not look like a failed lead.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		m.handleLeadCreated(ctx, e)
	case events.OpportunityStageChanged:
		m.log.Info("opportunity stage changed",
			"tracking_code", e.TrackingCode,
			"from", e.OldStage,
			"to", e.NewStage,
		)
	}
	return nil
}

func (m *Module) handleLeadCreated(ctx context.Context, lead events.LeadCreated) {
	if m.enqueuer != nil {
		err := m.enqueuer.EnqueueLeadNotification(ctx, lead)
		if err == nil {
			return
		}
		m.log.Warn("notification enqueue failed, dispatching inline", "tracking_code", lead.TrackingCode, "error", err)
	}
	m.NotifyLead(ctx, lead)
}

// NotifyLead runs the fan-out to completion and logs the report.
func (m *Module) NotifyLead(ctx context.Context, lead events.LeadCreated) {
	m.dispatcher.LogReport(m.dispatcher.Dispatch(ctx, lead))
}

// NewDispatcherFromConfig is the usual constructor for both processes.
func NewDispatcherFromConfig(cfg config.NotificationConfig, sender email.Sender, chat *whatsapp.Client, m *metrics.Pipeline, log *logger.Logger) *Dispatcher {
	return NewDispatcher(Channels(cfg, sender, chat, log), m, log)
}
