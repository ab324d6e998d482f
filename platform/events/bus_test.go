package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"container_leads_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishRunsAllHandlersEvenWhenOneFails(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32

	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		return errors.New("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		panic("handler bug")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if calls.Load() != 3 {
		t.Fatalf("expected 3 handler calls, got %d", calls.Load())
	}
}

func TestPublishDetachesFromCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var sawCancel atomic.Bool

	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
		sawCancel.Store(ctx.Err() != nil)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if sawCancel.Load() {
		t.Fatal("handler should not observe the publisher's cancellation")
	}
}

func TestPublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	second := false

	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		return errors.New("first")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		second = true
		return nil
	}))

	if err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()}); err == nil {
		t.Fatal("expected error")
	}
	if second {
		t.Fatal("second handler should not run after a failure")
	}
}
