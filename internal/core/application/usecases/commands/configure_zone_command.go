package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConfigureZoneCommandIsNotConstructed = errors.New(
	"ConfigureZoneCommand must be created via NewConfigureZoneCommand constructor",
)

// ConfigureZoneCommand represents a request to attach a service area to a
// restaurant. The boundary is optional: without it, dispatch matches
// partners by zone id only.
//
// Example:
//
//	boundary, _ := kernel.NewPolygon(vertices)
//	cmd, err := NewConfigureZoneCommand(restaurantID, "Indiranagar", &boundary)
//	if err != nil {
//	    return fmt.Errorf("invalid command: %w", err)
//	}
//
//	handler := NewConfigureZoneCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to configure zone: %w", err)
//	}
type ConfigureZoneCommand struct {
	zoneID       kernel.UUID
	restaurantID kernel.UUID
	name         string
	boundary     *kernel.Polygon

	guard guard.ConstructorGuard
}

func NewConfigureZoneCommand(restaurantID kernel.UUID, name string, boundary *kernel.Polygon) (ConfigureZoneCommand, error) {
	var errList []error
	if err := restaurantID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("zone name"))
	}
	if boundary != nil {
		if err := boundary.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return ConfigureZoneCommand{}, err
	}

	return ConfigureZoneCommand{
		zoneID:       kernel.NewUUID(),
		restaurantID: restaurantID,
		name:         name,
		boundary:     boundary,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ConfigureZoneCommand) Validate() error {
	return c.guard.Validate(ErrConfigureZoneCommandIsNotConstructed)
}

func (c ConfigureZoneCommand) ZoneID() kernel.UUID       { return c.zoneID }
func (c ConfigureZoneCommand) RestaurantID() kernel.UUID { return c.restaurantID }
func (c ConfigureZoneCommand) Name() string              { return c.name }
func (c ConfigureZoneCommand) Boundary() *kernel.Polygon { return c.boundary }
