package commands

import (
	"context"
	"time"
)

type UpdatePartnerAvailabilityCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewUpdatePartnerAvailabilityCommandHandler(uowFactory PartnerUoWFactory) UpdatePartnerAvailabilityCommandHandler {
	return UpdatePartnerAvailabilityCommandHandler{uowFactory: uowFactory}
}

func (h UpdatePartnerAvailabilityCommandHandler) Handle(
	ctx context.Context,
	command UpdatePartnerAvailabilityCommand,
) error {
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

	repo := uow.PartnerRepository()
	p, err := repo.Get(ctx, command.PartnerID())
	if err != nil {
		return err
	}
	if err = p.UpdateAvailability(command.IsOnline(), command.Location(), time.Now().UTC()); err != nil {
		return err
	}
	if err = repo.Update(ctx, p); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
