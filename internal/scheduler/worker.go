package scheduler

import (
	"context"
	"fmt"

	"container_leads_backend/internal/events"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// LeadNotifier runs a fan-out to completion. Implemented by the
// notification module.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead events.LeadCreated)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	notifier LeadNotifier
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, notifier LeadNotifier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:   server,
		mux:      asynq.NewServeMux(),
		notifier: notifier,
		log:      log,
	}
	w.mux.HandleFunc(TaskLeadNotification, w.handleLeadNotification)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleLeadNotification only fails on a bad payload. Channel failures are
// reported by the notifier and never bounce the task.
func (w *Worker) handleLeadNotification(ctx context.Context, task *asynq.Task) error {
	lead, err := ParseLeadNotificationPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	w.notifier.NotifyLead(ctx, lead)
	return nil
}
