package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand moves an order forward to a target status.
// Partner-driven moves (out for delivery, delivered) carry the acting
// partner's id. Cancellation has its own command.
type UpdateOrderStatusCommand struct {
	orderID   kernel.UUID
	target    order.Status
	partnerID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	partnerID *kernel.UUID,
) (UpdateOrderStatusCommand, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := target.Validate(); err != nil {
		errList = append(errList, err)
	}
	if target == order.Cancelled || target == order.Pending {
		errList = append(errList, errs.NewValueIsInvalidError("target status"))
	}
	if partnerID != nil {
		if err := partnerID.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if target == order.OutForDelivery && partnerID == nil {
		errList = append(errList, errs.NewValueIsRequiredError("partner id"))
	}
	if err := errors.Join(errList...); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	var id *kernel.UUID
	if partnerID != nil {
		p := *partnerID
		id = &p
	}
	return UpdateOrderStatusCommand{
		orderID:   orderID,
		target:    target,
		partnerID: id,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID    { return c.orderID }
func (c UpdateOrderStatusCommand) Target() order.Status    { return c.target }
func (c UpdateOrderStatusCommand) PartnerID() *kernel.UUID { return c.partnerID }
