package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one cart entry as submitted at checkout.
type OrderLine struct {
	MenuItemID kernel.UUID
	Name       string
	Price      kernel.Money
	Quantity   int
}

// CheckoutRequest carries the raw checkout input. The restaurant fields are
// the snapshot taken at checkout and are never re-resolved later.
type CheckoutRequest struct {
	UserID                kernel.UUID
	RestaurantID          kernel.UUID
	RestaurantName        string
	RestaurantLocation    kernel.Location
	FreeDeliveryThreshold *kernel.Money
	Lines                 []OrderLine
	AddressText           string
	AddressLocation       kernel.Location
	Coupon                *services.Coupon
	Mode                  order.DeliveryMode
	Method                order.PaymentMethod
}

// CreateOrderCommand represents a customer checkout.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CheckoutRequest{...})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID                kernel.UUID
	restaurant            order.RestaurantSnapshot
	freeDeliveryThreshold *kernel.Money
	items                 []order.Item
	address               order.Address
	coupon                *services.Coupon
	mode                  order.DeliveryMode
	method                order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout and builds the item, address
// and restaurant snapshots. Every invalid field is reported.
func NewCreateOrderCommand(req CheckoutRequest) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		freeDeliveryThreshold: req.FreeDeliveryThreshold,
		coupon:                req.Coupon,
		mode:                  req.Mode,
		method:                req.Method,
		guard:                 guard.NewConstructorGuard(),
	}

	errList := []error{
		cmd.setUserID(req.UserID),
		cmd.setRestaurant(req.RestaurantID, req.RestaurantName, req.RestaurantLocation),
		cmd.setItems(req.Lines),
		cmd.setAddress(req.AddressText, req.AddressLocation),
		req.Mode.Validate(),
		req.Method.Validate(),
	}
	if req.Coupon != nil {
		errList = append(errList, req.Coupon.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() kernel.UUID                  { return c.userID }
func (c CreateOrderCommand) Restaurant() order.RestaurantSnapshot { return c.restaurant }
func (c CreateOrderCommand) FreeDeliveryThreshold() *kernel.Money { return c.freeDeliveryThreshold }
func (c CreateOrderCommand) Items() []order.Item                  { return append([]order.Item(nil), c.items...) }
func (c CreateOrderCommand) Address() order.Address               { return c.address }
func (c CreateOrderCommand) Coupon() *services.Coupon             { return c.coupon }
func (c CreateOrderCommand) Mode() order.DeliveryMode             { return c.mode }
func (c CreateOrderCommand) Method() order.PaymentMethod          { return c.method }

func (c *CreateOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *CreateOrderCommand) setRestaurant(id kernel.UUID, name string, location kernel.Location) error {
	r, err := order.NewRestaurantSnapshot(id, name, location)
	if err != nil {
		return err
	}
	c.restaurant = r
	return nil
}

func (c *CreateOrderCommand) setItems(lines []OrderLine) error {
	if len(lines) == 0 {
		return services.ErrEmptyCart
	}

	items := make([]order.Item, 0, len(lines))
	var errList []error
	for _, l := range lines {
		item, err := order.NewItem(l.MenuItemID, l.Name, l.Price, l.Quantity)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setAddress(text string, location kernel.Location) error {
	a, err := order.NewAddress(text, location)
	if err != nil {
		return err
	}
	c.address = a
	return nil
}
