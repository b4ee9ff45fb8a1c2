// Package eventbus dispatches committed domain events to in-process
// handlers without blocking the command that raised them.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/event"
)

type Handler interface {
	Handle(ctx context.Context, e event.DomainEvent) error
}

// Bus implements ports.EventPublisher. Every handler owns a FIFO queue that
// is drained by at most one goroutine at a time, so a handler sees events in
// publish order, across separate Publish calls too. Handler errors and panics
// are logged and go no further.
type Bus struct {
	subscribers map[string]*subscriber
	names       []string
	logger      *slog.Logger
	wg          sync.WaitGroup
}

type envelope struct {
	ctx   context.Context
	event event.DomainEvent
}

type subscriber struct {
	name    string
	handler Handler

	mu       sync.Mutex
	queue    []envelope
	draining bool
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]*subscriber),
		logger:      logger.With("component", "event_bus"),
	}
}

// Subscribe registers a handler under a name used in logs. It must be called
// before the first Publish.
func (b *Bus) Subscribe(name string, handler Handler) {
	if s, exists := b.subscribers[name]; exists {
		s.handler = handler
		return
	}
	b.names = append(b.names, name)
	b.subscribers[name] = &subscriber{name: name, handler: handler}
}

func (b *Bus) Publish(ctx context.Context, events ...event.DomainEvent) {
	if len(events) == 0 {
		return
	}

	// Handlers outlive the request that committed the events.
	ctx = context.WithoutCancel(ctx)

	for _, name := range b.names {
		s := b.subscribers[name]

		s.mu.Lock()
		for _, e := range events {
			s.queue = append(s.queue, envelope{ctx: ctx, event: e})
		}
		start := !s.draining
		s.draining = true
		s.mu.Unlock()

		if start {
			b.wg.Add(1)
			go b.drain(s)
		}
	}
}

// Wait blocks until every dispatched event has been handled.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) drain(s *subscriber) {
	defer b.wg.Done()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = envelope{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		b.dispatch(next.ctx, s.name, s.handler, next.event)
	}
}

func (b *Bus) dispatch(ctx context.Context, name string, handler Handler, e event.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"handler", name,
				"event", e.Type(),
				"order_number", e.Order().OrderNumber,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if err := handler.Handle(ctx, e); err != nil {
		b.logger.WarnContext(ctx, "event handler failed",
			"handler", name,
			"event", e.Type(),
			"order_number", e.Order().OrderNumber,
			"error", err,
		)
	}
}
