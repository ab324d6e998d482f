package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"container_leads_backend/internal/email"
	"container_leads_backend/internal/notification"
	"container_leads_backend/internal/scheduler"
	"container_leads_backend/internal/whatsapp"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// The worker needs no database: the queued task carries the whole lead.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.NewWithOptions(cfg.Env, logger.Options{File: cfg.LogFile})
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueue())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	pipelineMetrics := metrics.NewPipeline(registry)
	if addr := cfg.GetSchedulerMetricsAddr(); addr != "" {
		go serveMetrics(ctx, addr, registry, log)
	}

	dispatcher := notification.NewDispatcherFromConfig(cfg, email.NewSender(cfg, log), whatsapp.NewClient(cfg, log), pipelineMetrics, log)
	notificationModule := notification.New(dispatcher, log)
	log.Info("notification channels configured", "channels", dispatcher.Channels())

	worker, err := scheduler.NewWorker(cfg, notificationModule, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info("scheduler metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("scheduler metrics server stopped", "error", err)
	}
}
