package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadrouting_backend/internal/consent"
	"leadrouting_backend/internal/distribution"
	"leadrouting_backend/internal/events"
	apphttp "leadrouting_backend/internal/http"
	"leadrouting_backend/internal/http/router"
	"leadrouting_backend/internal/leads"
	"leadrouting_backend/internal/notification"
	"leadrouting_backend/internal/partners"
	"leadrouting_backend/internal/scheduler"
	"leadrouting_backend/internal/storage"
	"leadrouting_backend/internal/submission"
	"leadrouting_backend/migrations"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/db"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting api server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Presigner for evidence asset URLs (degrades to raw keys without MinIO)
	presigner, err := storage.NewPresigner(cfg, log)
	if err != nil {
		log.Error("failed to initialize storage presigner", "error", err)
		panic("failed to initialize storage presigner: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	partnersModule := partners.NewModule(pool, val, log)
	consentModule := consent.NewModule(pool, eventBus, val, log)
	distributionModule := distribution.NewModule(pool, partnersModule.Service(), val, log)
	leadsModule := leads.NewModule(pool, consentModule.Service(), distributionModule.Service(),
		partnersModule.Service(), presigner, eventBus, val, log, cfg)
	submissionModule := submission.NewModule(pool, partnersModule.Service(),
		consentModule.Service(), eventBus, log, cfg)

	// Submission queue hand-off (breaks the leads <-> submission cycle)
	leadsModule.Service().SetEnqueuer(submissionModule.Service())

	// Deliver-now tasks: queued submissions trigger an immediate asynq attempt
	// handled by the worker binary. Without Redis this is a no-op and queued
	// work waits for the worker's periodic sweep.
	schedulerClient, err := scheduler.NewClient(cfg, log)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer schedulerClient.Close()
	schedulerClient.SubscribeToQueue(eventBus)

	// Ops alerts on terminal submission failures
	alerter := notification.NewAlerter(cfg, log)
	alerter.Subscribe(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			partnersModule,
			consentModule,
			distributionModule,
			leadsModule,
			submissionModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
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
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
