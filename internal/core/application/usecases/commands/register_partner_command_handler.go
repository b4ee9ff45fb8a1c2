package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/partner"
)

// RegisterPartnerCommandHandler creates and persists a new delivery partner.
//
// Example:
//
//	handler := NewRegisterPartnerCommandHandler(uowFactory)
//	cmd, _ := NewRegisterPartnerCommand("Ravi Kumar", nil)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("partner registration failed: %w", err)
//	}
type RegisterPartnerCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewRegisterPartnerCommandHandler(uowFactory PartnerUoWFactory) RegisterPartnerCommandHandler {
	return RegisterPartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle persists the partner within a transaction and rolls back on any
// error.
func (h RegisterPartnerCommandHandler) Handle(ctx context.Context, cmd RegisterPartnerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := partner.NewDeliveryPartner(cmd.PartnerID(), cmd.Name(), cmd.ZoneID())
	if err != nil {
		return err
	}

	if err = uow.PartnerRepository().Add(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
