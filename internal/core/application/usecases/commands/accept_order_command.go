package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand is the restaurant accepting an order.
type AcceptOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(orderID kernel.UUID) (AcceptOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AcceptOrderCommand{}, err
	}
	return AcceptOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
