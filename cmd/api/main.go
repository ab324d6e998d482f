package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"container_leads_backend/internal/adapters/storage"
	"container_leads_backend/internal/email"
	"container_leads_backend/internal/events"
	apphttp "container_leads_backend/internal/http"
	"container_leads_backend/internal/http/router"
	"container_leads_backend/internal/leads"
	"container_leads_backend/internal/leads/tracking"
	"container_leads_backend/internal/notification"
	"container_leads_backend/internal/scheduler"
	"container_leads_backend/internal/webhook"
	"container_leads_backend/internal/whatsapp"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/db"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/metrics"
	"container_leads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.NewWithOptions(cfg.Env, logger.Options{File: cfg.LogFile})
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	registry := metrics.NewRegistry()
	pipelineMetrics := metrics.NewPipeline(registry)
	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	leadDeps := leads.ModuleDeps{
		Pool:      pool,
		Bus:       eventBus,
		Validator: val,
		Metrics:   pipelineMetrics,
		Log:       log,
	}
	if hook := webhook.NewClient(cfg, log); hook != nil {
		leadDeps.Webhook = hook
	}
	if archive := initQuoteArchive(ctx, cfg, log); archive != nil {
		leadDeps.Archive = archive
	}

	dispatcher := notification.NewDispatcherFromConfig(cfg, email.NewSender(cfg, log), whatsapp.NewClient(cfg, log), pipelineMetrics, log)
	notificationModule := notification.New(dispatcher, log)
	notificationModule.RegisterHandlers(eventBus)
	log.Info("notification channels configured", "channels", dispatcher.Channels())

	if cfg.IsSchedulerEnabled() {
		closeRedis := initRedis(cfg, log, &leadDeps, notificationModule)
		defer closeRedis()
	} else {
		log.Warn("REDIS_URL not configured; notifications run in-process and tracking codes are not reserved")
	}

	leadsModule, err := leads.NewModule(cfg, leadDeps)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  pool,
		Metrics: registry,
		Modules: []apphttp.Module{leadsModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initQuoteArchive returns nil when object storage is not configured or the
// bucket cannot be prepared. Archiving is best effort.
func initQuoteArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage.QuoteArchive {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; quote snapshots disabled")
		return nil
	}
	store, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}
	bucket := cfg.GetMinioBucketQuoteSnapshots()
	if err := withRetry(ctx, log, "ensure quote snapshot bucket", 3, 2*time.Second, func() error {
		return store.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		return nil
	}
	log.Info("storage service initialized", "quoteSnapshotsBucket", bucket)
	return storage.NewQuoteArchive(store, bucket)
}

// initRedis wires the tracking-code reservation and the notification queue.
// A failure leaves the in-process defaults in place.
func initRedis(cfg *config.Config, log *logger.Logger, deps *leads.ModuleDeps, notifications *notification.Module) func() {
	var closers []func() error

	rdb, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
	} else {
		deps.Reserver = tracking.NewRedisReserver(rdb)
		closers = append(closers, rdb.Close)
	}

	queue, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
	} else {
		notifications.SetEnqueuer(queue)
		closers = append(closers, queue.Close)
		log.Info("lead notifications queued", "queue", cfg.GetAsynqQueue())
	}

	return func() {
		for _, c := range closers {
			_ = c()
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
