package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrComputeRefundCommandIsNotConstructed = errors.New(
	"ComputeRefundCommand must be created via NewComputeRefundCommand constructor",
)

// ComputeRefundCommand books the refund and compensation of a cancelled
// order on its settlement. No money moves.
type ComputeRefundCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewComputeRefundCommand(orderID kernel.UUID) (ComputeRefundCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ComputeRefundCommand{}, err
	}
	return ComputeRefundCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ComputeRefundCommand) Validate() error {
	return c.guard.Validate(ErrComputeRefundCommandIsNotConstructed)
}

func (c ComputeRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}
