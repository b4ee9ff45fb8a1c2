package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignPartnerCommandIsNotConstructed = errors.New(
	"AssignPartnerCommand must be created via NewAssignPartnerCommand constructor",
)

// AssignPartnerCommand triggers one dispatch attempt for an order.
//
// Example:
//
//	cmd, _ := NewAssignPartnerCommand(orderID)
//	result, err := handler.Handle(ctx, cmd)
//	if err == nil && result.Outcome == AssignmentNoMatch {
//	    // retried by the redispatch job
//	}
type AssignPartnerCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignPartnerCommand(orderID kernel.UUID) (AssignPartnerCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignPartnerCommand{}, err
	}
	return AssignPartnerCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPartnerCommandIsNotConstructed)
}

func (c AssignPartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}
