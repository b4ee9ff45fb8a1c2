package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrExecuteRefundCommandIsNotConstructed = errors.New(
	"ExecuteRefundCommand must be created via NewExecuteRefundCommand constructor",
)

// ExecuteRefundCommand moves the computed refund through the payment gateway.
type ExecuteRefundCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewExecuteRefundCommand(orderID kernel.UUID) (ExecuteRefundCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ExecuteRefundCommand{}, err
	}
	return ExecuteRefundCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ExecuteRefundCommand) Validate() error {
	return c.guard.Validate(ErrExecuteRefundCommandIsNotConstructed)
}

func (c ExecuteRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}
