package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"leadrouting_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsAllHandlersAndJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var calls int32
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("handler one failed")
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if err == nil {
		t.Fatal("expected joined handler error")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected both handlers to run, got %d calls", got)
	}
}

func TestPublishIsAsynchronousAndFiltersByName(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	done := make(chan string, 2)
	bus.Subscribe("wanted", HandlerFunc(func(ctx context.Context, e Event) error {
		done <- e.EventName()
		return nil
	}))
	bus.Subscribe("other", HandlerFunc(func(ctx context.Context, e Event) error {
		done <- e.EventName()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "wanted"})

	select {
	case name := <-done:
		if name != "wanted" {
			t.Errorf("wrong handler fired: %s", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}

	select {
	case name := <-done:
		t.Errorf("unexpected second handler fired: %s", name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishSurvivesCanceledRequestContext(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	done := make(chan error, 1)
	bus.Subscribe("late", HandlerFunc(func(ctx context.Context, e Event) error {
		done <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{NewBaseEvent(), "late"})

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("handler context should be detached from request cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}
