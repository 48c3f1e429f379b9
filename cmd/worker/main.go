package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	consentrepo "leadrouting_backend/internal/consent/repository"
	consentsvc "leadrouting_backend/internal/consent/service"
	"leadrouting_backend/internal/events"
	leadsrepo "leadrouting_backend/internal/leads/repository"
	"leadrouting_backend/internal/notification"
	partnersrepo "leadrouting_backend/internal/partners/repository"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/internal/scheduler"
	submissionrepo "leadrouting_backend/internal/submission/repository"
	submissionsvc "leadrouting_backend/internal/submission/service"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/db"
	"leadrouting_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// The worker binary owns delivery: the periodic queue sweep plus, when Redis
// is configured, the asynq server handling deliver-now tasks from the api.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting submission worker", "env", cfg.Env, "interval", cfg.WorkerInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	// Terminal failures publish submission.failed; the alerter emails ops.
	alerter := notification.NewAlerter(cfg, log)
	alerter.Subscribe(eventBus)

	partners := partnerssvc.New(partnersrepo.New(pool), log)
	consents := consentsvc.New(consentrepo.New(pool), eventBus, log)
	deliverer := submissionsvc.NewDeliverer(cfg.DeliveryTimeout, log)

	submissions := submissionsvc.New(
		submissionrepo.New(pool), leadsrepo.New(pool), partners, consents,
		deliverer, eventBus, log, submissionsvc.Config{
			SourceTag:   cfg.LeadSourceTag,
			MaxAttempts: cfg.MaxDeliveryAttempts,
			Throttle:    cfg.DeliveryThrottle,
			Timeout:     cfg.DeliveryTimeout,
		})

	group, groupCtx := errgroup.WithContext(ctx)

	sweep := submissionsvc.NewWorker(submissions, cfg.WorkerInterval, log)
	group.Go(func() error {
		return sweep.Run(groupCtx)
	})

	if cfg.RedisURL != "" {
		server, err := scheduler.NewServer(cfg, submissions, log)
		if err != nil {
			log.Error("failed to initialize asynq server", "error", err)
			panic("failed to initialize asynq server: " + err.Error())
		}
		group.Go(func() error {
			return server.Run(groupCtx)
		})
	} else {
		log.Warn("redis not configured, running sweep-only")
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}
