package service

import (
	"context"
	"time"

	"leadrouting_backend/platform/logger"
)

// Worker sweeps the submission queue on a fixed interval. The first sweep
// runs immediately so a restart never leaves queued work sitting until the
// next tick.
type Worker struct {
	svc      *Service
	interval time.Duration
	log      *logger.Logger
}

func NewWorker(svc *Service, interval time.Duration, log *logger.Logger) *Worker {
	return &Worker{svc: svc, interval: interval, log: log}
}

// Run blocks until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("submission worker started", "interval", w.interval)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("submission worker stopping")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	if err := w.svc.ProcessQueue(ctx); err != nil && ctx.Err() == nil {
		w.log.Error("submission sweep failed", "error", err)
	}
}
