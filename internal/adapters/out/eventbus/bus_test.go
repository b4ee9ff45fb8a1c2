package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/core/domain/model/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	err    error
	panics bool
	ctxErr []error

	// hold, when set, blocks status changes until it is closed
	hold chan struct{}
}

func (h *recordingHandler) Handle(ctx context.Context, e event.DomainEvent) error {
	if h.hold != nil && e.Type() == event.EventOrderStatusChanged {
		<-h.hold
	}
	h.mu.Lock()
	h.types = append(h.types, e.Type())
	h.ctxErr = append(h.ctxErr, ctx.Err())
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.types...)
}

func events() []event.DomainEvent {
	meta := func(t string) event.OrderMetadata {
		return event.OrderMetadata{EventType: t, OccurredAt: time.Now(), OrderNumber: "ORD-1A2B3C4D"}
	}
	return []event.DomainEvent{
		event.OrderPlaced{OrderMetadata: meta(event.EventOrderPlaced)},
		event.OrderStatusChanged{OrderMetadata: meta(event.EventOrderStatusChanged)},
		event.OrderAssigned{OrderMetadata: meta(event.EventOrderAssigned)},
	}
}

func TestBus_DeliversInOrderToEveryHandler(t *testing.T) {
	bus := eventbus.NewBus(slog.New(slog.DiscardHandler))
	first := &recordingHandler{}
	second := &recordingHandler{}
	bus.Subscribe("first", first)
	bus.Subscribe("second", second)

	bus.Publish(t.Context(), events()...)
	bus.Wait()

	want := []string{event.EventOrderPlaced, event.EventOrderStatusChanged, event.EventOrderAssigned}
	assert.Equal(t, want, first.seen())
	assert.Equal(t, want, second.seen())
}

func TestBus_KeepsOrderAcrossPublishes(t *testing.T) {
	bus := eventbus.NewBus(slog.New(slog.DiscardHandler))
	notifier := &recordingHandler{hold: make(chan struct{})}
	bus.Subscribe("notifications", notifier)

	all := events()
	bus.Publish(t.Context(), all[1])
	bus.Publish(t.Context(), all[2])
	bus.Publish(t.Context(), all[0])
	close(notifier.hold)
	bus.Wait()

	assert.Equal(t, []string{
		event.EventOrderStatusChanged,
		event.EventOrderAssigned,
		event.EventOrderPlaced,
	}, notifier.seen())
}

func TestBus_DeliversAfterIdle(t *testing.T) {
	bus := eventbus.NewBus(slog.New(slog.DiscardHandler))
	handler := &recordingHandler{}
	bus.Subscribe("handler", handler)

	bus.Publish(t.Context(), events()[0])
	bus.Wait()
	bus.Publish(t.Context(), events()[2])
	bus.Wait()

	assert.Equal(t, []string{event.EventOrderPlaced, event.EventOrderAssigned}, handler.seen())
}

func TestBus_IsolatesFailures(t *testing.T) {
	bus := eventbus.NewBus(slog.New(slog.DiscardHandler))
	failing := &recordingHandler{err: errors.New("smtp down")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe("failing", failing)
	bus.Subscribe("panicking", panicking)
	bus.Subscribe("healthy", healthy)

	require.NotPanics(t, func() {
		bus.Publish(t.Context(), events()...)
		bus.Wait()
	})

	assert.Len(t, failing.seen(), 3)
	assert.Len(t, panicking.seen(), 3)
	assert.Len(t, healthy.seen(), 3)
}

func TestBus_OutlivesCallerContext(t *testing.T) {
	bus := eventbus.NewBus(slog.New(slog.DiscardHandler))
	handler := &recordingHandler{}
	bus.Subscribe("handler", handler)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	bus.Publish(ctx, events()[0])
	bus.Wait()

	require.Len(t, handler.ctxErr, 1)
	assert.NoError(t, handler.ctxErr[0])
}

func TestBus_NoEvents(t *testing.T) {
	bus := eventbus.NewBus(slog.New(slog.DiscardHandler))
	handler := &recordingHandler{}
	bus.Subscribe("handler", handler)

	bus.Publish(t.Context())
	bus.Wait()

	assert.Empty(t, handler.seen())
}
