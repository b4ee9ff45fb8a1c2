package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdatePartnerAvailabilityCommandIsNotConstructed = errors.New(
	"UpdatePartnerAvailabilityCommand must be created via NewUpdatePartnerAvailabilityCommand constructor",
)

// UpdatePartnerAvailabilityCommand is a delivery partner's heartbeat. A nil
// location keeps the last known one.
type UpdatePartnerAvailabilityCommand struct {
	partnerID kernel.UUID
	isOnline  bool
	location  *kernel.Location

	guard guard.ConstructorGuard
}

func NewUpdatePartnerAvailabilityCommand(
	partnerID kernel.UUID,
	isOnline bool,
	location *kernel.Location,
) (UpdatePartnerAvailabilityCommand, error) {
	var errList []error
	if err := partnerID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return UpdatePartnerAvailabilityCommand{}, err
	}

	return UpdatePartnerAvailabilityCommand{
		partnerID: partnerID,
		isOnline:  isOnline,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePartnerAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePartnerAvailabilityCommandIsNotConstructed)
}

func (c UpdatePartnerAvailabilityCommand) PartnerID() kernel.UUID     { return c.partnerID }
func (c UpdatePartnerAvailabilityCommand) IsOnline() bool             { return c.isOnline }
func (c UpdatePartnerAvailabilityCommand) Location() *kernel.Location { return c.location }
