package eventhandlers_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/eventhandlers"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assignedOrder(t *testing.T, partnerID kernel.UUID) (*order.Order, event.OrderAssigned) {
	t.Helper()
	o := newOrder(t)
	require.NoError(t, o.Accept(t0))
	require.NoError(t, o.AssignPartner(partnerID, 0.9, "auto", t0))

	for _, e := range o.DomainEvents() {
		if assigned, ok := e.(event.OrderAssigned); ok {
			return o, assigned
		}
	}
	t.Fatal("no OrderAssigned event raised")
	return nil, event.OrderAssigned{}
}

func TestETAHandler_StoresEstimate(t *testing.T) {
	p := newPartner(t)
	o, assigned := assignedOrder(t, p.ID())
	now := t0.Add(5 * time.Minute)

	uow := newMockUoW()
	uow.On("Commit", mock.Anything).Return(nil)
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
	uow.partners.On("Get", mock.Anything, p.ID()).Return(p, nil)
	uow.orders.On("UpdateETA", mock.Anything, o.ID(), order.ETA{MinMinutes: 12, MaxMinutes: 18, LastUpdated: now}).
		Return(nil)

	estimator := new(MockEstimator)
	estimator.On("Estimate", mock.Anything, ports.Route{
		Partner:    p.Location(),
		Restaurant: o.Restaurant().Location(),
		Customer:   o.Address().Location(),
	}).Return(12, 18, nil)

	handler := eventhandlers.NewETAHandler(&MockUoWFactory{uow: uow}, estimator,
		func() time.Time { return now }, slog.New(slog.DiscardHandler))

	require.NoError(t, handler.Handle(t.Context(), assigned))

	uow.AssertCalled(t, "Commit", mock.Anything)
	uow.orders.AssertExpectations(t)
	estimator.AssertExpectations(t)
}

func TestETAHandler_IgnoresOtherEvents(t *testing.T) {
	handler := eventhandlers.NewETAHandler(&MockUoWFactory{uow: newMockUoW()}, new(MockEstimator),
		nil, slog.New(slog.DiscardHandler))

	err := handler.Handle(t.Context(), event.OrderStatusChanged{OrderMetadata: metadata(event.EventOrderStatusChanged)})
	require.NoError(t, err)
}

func TestETAHandler_SkipsReleasedAssignment(t *testing.T) {
	p := newPartner(t)
	o, assigned := assignedOrder(t, p.ID())
	require.NoError(t, o.ReleasePartner())

	uow := newMockUoW()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
	estimator := new(MockEstimator)

	handler := eventhandlers.NewETAHandler(&MockUoWFactory{uow: uow}, estimator, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, handler.Handle(t.Context(), assigned))

	estimator.AssertNotCalled(t, "Estimate", mock.Anything, mock.Anything)
	uow.orders.AssertNotCalled(t, "UpdateETA", mock.Anything, mock.Anything, mock.Anything)
}

func TestETAHandler_EstimatorFailure(t *testing.T) {
	p := newPartner(t)
	o, assigned := assignedOrder(t, p.ID())

	uow := newMockUoW()
	uow.orders.On("Get", mock.Anything, o.ID()).Return(o, nil)
	uow.partners.On("Get", mock.Anything, p.ID()).Return(p, nil)
	estimator := new(MockEstimator)
	estimator.On("Estimate", mock.Anything, mock.Anything).Return(0, 0, errors.New("routing unavailable"))

	handler := eventhandlers.NewETAHandler(&MockUoWFactory{uow: uow}, estimator, nil, slog.New(slog.DiscardHandler))
	err := handler.Handle(t.Context(), assigned)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing unavailable")
	uow.orders.AssertNotCalled(t, "UpdateETA", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
