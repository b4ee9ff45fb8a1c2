package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ETAHandler estimates the delivery window once a partner is assigned and
// stores it on the order.
type ETAHandler struct {
	uowFactory commands.UoWFactory
	estimator  ports.ETAEstimator
	now        func() time.Time
	logger     *slog.Logger
}

func NewETAHandler(
	uowFactory commands.UoWFactory,
	estimator ports.ETAEstimator,
	now func() time.Time,
	logger *slog.Logger,
) ETAHandler {
	if now == nil {
		now = time.Now
	}
	return ETAHandler{
		uowFactory: uowFactory,
		estimator:  estimator,
		now:        now,
		logger:     logger.With("component", "eta_handler"),
	}
}

func (h ETAHandler) Handle(ctx context.Context, e event.DomainEvent) error {
	assigned, ok := e.(event.OrderAssigned)
	if !ok {
		return nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, assigned.OrderID)
	if err != nil {
		return err
	}

	// The assignment may have been released, or the order finished, before
	// this event was handled.
	current := o.DeliveryPartnerID()
	if o.IsTerminal() || current == nil || !current.IsEqual(assigned.DeliveryPartnerID) {
		h.logger.DebugContext(ctx, "skipping stale assignment", "order_number", o.Number())
		return nil
	}

	p, err := uow.PartnerRepository().Get(ctx, assigned.DeliveryPartnerID)
	if err != nil {
		return err
	}

	minMinutes, maxMinutes, err := h.estimator.Estimate(ctx, ports.Route{
		Partner:    p.Location(),
		Restaurant: o.Restaurant().Location(),
		Customer:   o.Address().Location(),
	})
	if err != nil {
		return fmt.Errorf("estimate eta: %w", err)
	}

	eta := order.ETA{MinMinutes: minMinutes, MaxMinutes: maxMinutes, LastUpdated: h.now().UTC()}
	if err = o.UpdateETA(eta); err != nil {
		return err
	}
	if err = uow.OrderRepository().UpdateETA(ctx, o.ID(), eta); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "eta updated",
		"order_number", o.Number(),
		"min_minutes", minMinutes,
		"max_minutes", maxMinutes,
	)
	return nil
}
