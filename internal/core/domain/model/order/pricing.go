package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DeliveryMode tells whether the order is delivered by a partner or collected
// by the customer at the restaurant.
type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

func (m DeliveryMode) Validate() error {
	if m != ModeDelivery && m != ModePickup {
		return errs.NewValueIsInvalidErrorWithCause("delivery mode", fmt.Errorf("%q is not supported", string(m)))
	}
	return nil
}

// Pricing is the frozen price breakdown of an order. Every component is
// already rounded to a whole currency unit and
//
//	Total = Subtotal - Discount + DeliveryFee + PlatformFee + Tax
type Pricing struct {
	Subtotal    kernel.Money
	Discount    kernel.Money
	DeliveryFee kernel.Money
	PlatformFee kernel.Money
	Tax         kernel.Money
	Total       kernel.Money
}

// Validate checks non-negativity of every component and the total identity.
func (p Pricing) Validate() error {
	var errList []error
	for name, v := range map[string]kernel.Money{
		"subtotal":     p.Subtotal,
		"discount":     p.Discount,
		"delivery fee": p.DeliveryFee,
		"platform fee": p.PlatformFee,
		"tax":          p.Tax,
		"total":        p.Total,
	} {
		if v.IsNegative() {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", v)))
		}
	}

	if expected := p.ExpectedTotal(); !expected.Equal(p.Total) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("%s does not equal components sum %s", p.Total, expected)))
	}

	return errors.Join(errList...)
}

// ExpectedTotal recomputes the total from the components.
func (p Pricing) ExpectedTotal() kernel.Money {
	return p.Subtotal.Sub(p.Discount).Add(p.DeliveryFee).Add(p.PlatformFee).Add(p.Tax)
}

// OrderAmount is what the restaurant sells: subtotal minus discount.
func (p Pricing) OrderAmount() kernel.Money {
	return p.Subtotal.Sub(p.Discount)
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
