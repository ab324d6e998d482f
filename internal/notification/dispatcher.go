// Package notification fans a new lead out to the customer and the sales
// team. Channels are independent: each reports its own success and one
// channel failing never affects another.
package notification

import (
	"context"
	"fmt"
	"time"

	"container_leads_backend/internal/events"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/metrics"

	"golang.org/x/sync/errgroup"
)

// Channel is one notification sink. Notify handles its own errors and only
// reports whether delivery succeeded.
type Channel interface {
	Name() string
	// Applies is false when the channel has nothing to do for this lead,
	// e.g. no customer email. Skipped channels are not counted.
	Applies(lead events.LeadCreated) bool
	Notify(ctx context.Context, lead events.LeadCreated) bool
}

// Report is the settled result of one fan-out.
type Report struct {
	TrackingCode string
	Outcomes     map[string]bool
	Duration     time.Duration
}

// Failed lists the channels that did not deliver.
func (r Report) Failed() []string {
	var failed []string
	for name, ok := range r.Outcomes {
		if !ok {
			failed = append(failed, name)
		}
	}
	return failed
}

const (
	defaultChannelTimeout = 30 * time.Second
)

// Dispatcher runs every applicable channel concurrently and waits for all of
// them. There is no retry.
type Dispatcher struct {
	channels       []Channel
	metrics        *metrics.Pipeline
	log            *logger.Logger
	channelTimeout time.Duration
}

func NewDispatcher(channels []Channel, m *metrics.Pipeline, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		channels:       channels,
		metrics:        m,
		log:            log,
		channelTimeout: defaultChannelTimeout,
	}
}

// Channels returns the configured channel names.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch settles every channel and returns their outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, lead events.LeadCreated) Report {
	start := time.Now()
	applicable := make([]Channel, 0, len(d.channels))
	for _, ch := range d.channels {
		if ch.Applies(lead) {
			applicable = append(applicable, ch)
		}
	}

	results := make([]bool, len(applicable))
	var g errgroup.Group
	for i, ch := range applicable {
		g.Go(func() error {
			results[i] = d.notify(ctx, ch, lead)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		TrackingCode: lead.TrackingCode,
		Outcomes:     make(map[string]bool, len(applicable)),
		Duration:     time.Since(start),
	}
	for i, ch := range applicable {
		report.Outcomes[ch.Name()] = results[i]
		d.metrics.Notification(ch.Name(), results[i])
	}
	return report
}

// LogReport writes one line per fan-out.
func (d *Dispatcher) LogReport(r Report) {
	failed := r.Failed()
	if len(failed) == 0 {
		d.log.Info("notifications settled",
			"tracking_code", r.TrackingCode,
			"channels", len(r.Outcomes),
			"duration_ms", r.Duration.Milliseconds(),
		)
		return
	}
	d.log.Warn("notifications settled with failures",
		"tracking_code", r.TrackingCode,
		"channels", len(r.Outcomes),
		"failed", failed,
		"duration_ms", r.Duration.Milliseconds(),
	)
}

func (d *Dispatcher) notify(ctx context.Context, ch Channel, lead events.LeadCreated) (ok bool) {
	ctx, cancel := context.WithTimeout(ctx, d.channelTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification channel panic", "channel", ch.Name(), "tracking_code", lead.TrackingCode, "error", fmt.Sprint(r))
			ok = false
		}
	}()
	return ch.Notify(ctx, lead)
}
