package scheduler

import (
	"context"
	"fmt"

	"leadrouting_backend/internal/events"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client enqueues deliver-now tasks. A nil inner client (no Redis configured)
// turns every enqueue into a no-op; queued submissions then wait for the next
// worker sweep.
type Client struct {
	inner *asynq.Client
	queue string
	log   *logger.Logger
}

func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	c := &Client{queue: cfg.GetAsynqQueueName(), log: log}

	if cfg.GetRedisURL() == "" {
		log.Warn("redis not configured, deliveries wait for the periodic sweep")
		return c, nil
	}

	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	c.inner = asynq.NewClient(opt)
	return c, nil
}

// EnqueueDeliverNow schedules an immediate delivery attempt. Failures are not
// fatal; the sweep picks the submission up regardless.
func (c *Client) EnqueueDeliverNow(ctx context.Context, submissionID uuid.UUID) error {
	if c.inner == nil {
		return nil
	}

	task, err := NewSubmissionDeliverTask(submissionID)
	if err != nil {
		return err
	}

	_, err = c.inner.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(0))
	if err != nil {
		return fmt.Errorf("enqueue deliver task: %w", err)
	}
	return nil
}

// SubscribeToQueue wires the client to the event bus: every queued submission
// gets a deliver-now task.
func (c *Client) SubscribeToQueue(bus events.Bus) {
	bus.Subscribe(events.SubmissionQueued{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			queued, ok := event.(events.SubmissionQueued)
			if !ok {
				return nil
			}
			if err := c.EnqueueDeliverNow(ctx, queued.SubmissionID); err != nil {
				c.log.Warn("deliver-now enqueue failed, waiting for sweep",
					"submissionId", queued.SubmissionID, "error", err)
			}
			return nil
		}))
}

func (c *Client) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}
