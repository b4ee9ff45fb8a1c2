package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// AcceptOrderCommandHandler moves the order to preparing and then runs one
// dispatch attempt for delivery orders. A failed dispatch does not fail the
// acceptance: the order stays unassigned and the redispatch job retries it.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	assigner   partnerAssigner
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewAcceptOrderCommandHandler(
	uowFactory UoWFactory,
	assigner partnerAssigner,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		publisher:  publisher,
		logger:     logger.With("component", "accept_order"),
	}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) (AssignmentResult, error) {
	if err := command.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return AssignmentResult{}, err
	}
	if err = o.Accept(time.Now().UTC()); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}
	publishCommitted(ctx, h.publisher, uow)

	if o.Mode() == order.ModePickup {
		return AssignmentResult{Outcome: AssignmentNotAssignable}, nil
	}
	return tryDispatch(ctx, h.assigner, h.logger, o), nil
}

// tryDispatch runs one dispatch attempt and swallows its error.
func tryDispatch(ctx context.Context, assigner partnerAssigner, logger *slog.Logger, o *order.Order) AssignmentResult {
	if assigner == nil {
		return AssignmentResult{Outcome: AssignmentNoMatch}
	}

	cmd, err := NewAssignPartnerCommand(o.ID())
	if err != nil {
		logger.ErrorContext(ctx, "dispatch command rejected", "order_number", o.Number(), "error", err)
		return AssignmentResult{Outcome: AssignmentNoMatch}
	}
	result, err := assigner.Handle(ctx, cmd)
	if err != nil {
		logger.ErrorContext(ctx, "dispatch failed, left for redispatch", "order_number", o.Number(), "error", err)
		return AssignmentResult{Outcome: AssignmentNoMatch}
	}
	return result
}
