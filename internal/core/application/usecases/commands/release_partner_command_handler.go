package commands

import (
	"context"
	"log/slog"
)

// ReleasePartnerCommandHandler is the only path that clears an order's
// delivery partner. The order is re-dispatched right after the release.
type ReleasePartnerCommandHandler struct {
	uowFactory UoWFactory
	assigner   partnerAssigner
	logger     *slog.Logger
}

func NewReleasePartnerCommandHandler(
	uowFactory UoWFactory,
	assigner partnerAssigner,
	logger *slog.Logger,
) ReleasePartnerCommandHandler {
	return ReleasePartnerCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		logger:     logger.With("component", "release_partner"),
	}
}

func (h ReleasePartnerCommandHandler) Handle(ctx context.Context, command ReleasePartnerCommand) (AssignmentResult, error) {
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
	released := o.DeliveryPartnerID()
	if err = o.ReleasePartner(); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return AssignmentResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}

	h.logger.InfoContext(ctx, "partner released", "order_number", o.Number(), "partner_id", released)
	return tryDispatch(ctx, h.assigner, h.logger, o), nil
}
