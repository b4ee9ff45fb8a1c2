package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a snapshot of a menu item at checkout time. Name and price are
// copied from the catalog and never re-resolved.
type Item struct {
	menuItemID kernel.UUID
	name       string
	price      kernel.Money
	quantity   int
	guard      guard.ConstructorGuard
}

// NewItem validates that the item has a catalog id, a name, a non-negative
// unit price and a positive quantity.
func NewItem(menuItemID kernel.UUID, name string, price kernel.Money, quantity int) (Item, error) {
	var errList []error

	if err := menuItemID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("item name"))
	}
	if price.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"item price", fmt.Errorf("%s is negative", price)))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"item quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		menuItemID: menuItemID,
		name:       name,
		price:      price,
		quantity:   quantity,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) MenuItemID() kernel.UUID { return i.menuItemID }
func (i Item) Name() string            { return i.name }
func (i Item) Price() kernel.Money     { return i.price }
func (i Item) Quantity() int           { return i.quantity }

// LineTotal is price × quantity.
func (i Item) LineTotal() kernel.Money {
	return i.price.Mul(decimalFromInt(i.quantity))
}
