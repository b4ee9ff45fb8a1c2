package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/zone"
)

// ConfigureZoneCommandHandler persists a restaurant's service area.
type ConfigureZoneCommandHandler struct {
	uowFactory UoWFactory
}

func NewConfigureZoneCommandHandler(uowFactory UoWFactory) ConfigureZoneCommandHandler {
	return ConfigureZoneCommandHandler{uowFactory: uowFactory}
}

func (h ConfigureZoneCommandHandler) Handle(ctx context.Context, cmd ConfigureZoneCommand) error {
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

	z, err := zone.NewZone(cmd.ZoneID(), cmd.Name(), cmd.RestaurantID(), cmd.Boundary())
	if err != nil {
		return err
	}

	if err = uow.ZoneRepository().Add(ctx, z); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
