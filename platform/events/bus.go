package events

import (
	"context"
	"fmt"
	"sync"

	"container_leads_backend/platform/logger"
)

// InMemoryBus dispatches events to handlers registered in the same process.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

var _ Bus = (*InMemoryBus)(nil)

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish runs each handler in its own goroutine. Handler errors and panics
// are logged, never returned.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	for _, h := range b.snapshot(event.EventName()) {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			if err := b.safeHandle(detached, h, event); err != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}(h)
	}
}

// PublishSync runs handlers sequentially and stops at the first error.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	for _, h := range b.snapshot(event.EventName()) {
		if err := b.safeHandle(ctx, h, event); err != nil {
			return fmt.Errorf("%s: %w", event.EventName(), err)
		}
	}
	return nil
}

// Wait blocks until every asynchronously published handler has returned.
// Used on shutdown and in tests.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}

func (b *InMemoryBus) snapshot(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := b.handlers[name]
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

func (b *InMemoryBus) safeHandle(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, event)
}
