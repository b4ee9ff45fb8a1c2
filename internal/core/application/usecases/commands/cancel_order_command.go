package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order on behalf of an actor. A restaurant
// rejecting an order is a cancellation with ActorRestaurant.
type CancelOrderCommand struct {
	orderID kernel.UUID
	reason  string
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, reason string, actor order.Actor) (CancelOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{
		orderID: orderID,
		reason:  strings.TrimSpace(reason),
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) Reason() string       { return c.reason }
func (c CancelOrderCommand) Actor() order.Actor   { return c.actor }
