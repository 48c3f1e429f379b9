package scheduler

import (
	"context"
	"fmt"

	submissionsvc "leadrouting_backend/internal/submission/service"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Server runs the asynq worker that handles deliver-now tasks.
type Server struct {
	inner *asynq.Server
	mux   *asynq.ServeMux
	log   *logger.Logger
}

func NewServer(cfg config.SchedulerConfig, submissions *submissionsvc.Service, log *logger.Logger) (*Server, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	inner := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{queue: 1},
		Logger:      asynqLogger{log},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSubmissionDeliver, func(ctx context.Context, task *asynq.Task) error {
		submissionID, err := parseSubmissionDeliverPayload(task)
		if err != nil {
			return err
		}
		return submissions.ProcessByID(ctx, submissionID)
	})

	return &Server{inner: inner, mux: mux, log: log}, nil
}

// Run blocks until ctx is canceled, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.inner.Start(s.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}

	<-ctx.Done()
	s.log.Info("asynq server stopping")
	s.inner.Shutdown()
	return ctx.Err()
}

// asynqLogger adapts the platform logger to asynq's logging interface.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
