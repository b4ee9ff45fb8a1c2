package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReleasePartnerCommandIsNotConstructed = errors.New(
	"ReleasePartnerCommand must be created via NewReleasePartnerCommand constructor",
)

// ReleasePartnerCommand clears a failed assignment so that the order can be
// dispatched again.
type ReleasePartnerCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReleasePartnerCommand(orderID kernel.UUID) (ReleasePartnerCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReleasePartnerCommand{}, err
	}
	return ReleasePartnerCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReleasePartnerCommand) Validate() error {
	return c.guard.Validate(ErrReleasePartnerCommandIsNotConstructed)
}

func (c ReleasePartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}
