package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies one forward transition through the
// matching order guard:
//
//	confirmed         generic transition
//	preparing         Accept (backfills confirmed)
//	ready             MarkReady
//	out_for_delivery  PickUp by the assigned partner
//	delivered         Deliver by the assigned partner; pickup orders use
//	                  the generic transition from ready
//
// An accepted delivery order that is still unassigned after the move gets
// one more dispatch attempt.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	assigner   partnerAssigner
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	assigner partnerAssigner,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		publisher:  publisher,
		logger:     logger.With("component", "update_order_status"),
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, command UpdateOrderStatusCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if err = applyStatus(o, command, time.Now().UTC()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}
	publishCommitted(ctx, h.publisher, uow)

	if o.Mode() == order.ModeDelivery && !o.HasPartner() && o.Status().IsAssignable() {
		tryDispatch(ctx, h.assigner, h.logger, o)
	}
	return nil
}

func applyStatus(o *order.Order, command UpdateOrderStatusCommand, at time.Time) error {
	switch command.Target() { //nolint:exhaustive // pending and cancelled are rejected by the command
	case order.Preparing:
		return o.Accept(at)
	case order.Ready:
		return o.MarkReady(at)
	case order.OutForDelivery:
		return o.PickUp(*command.PartnerID(), at)
	case order.Delivered:
		if o.Mode() == order.ModePickup {
			return o.TransitionTo(order.Delivered, at)
		}
		if command.PartnerID() == nil {
			return errs.NewValueIsRequiredError("partner id")
		}
		return o.Deliver(*command.PartnerID(), at)
	default:
		return o.TransitionTo(command.Target(), at)
	}
}
