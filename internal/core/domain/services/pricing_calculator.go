package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when the cart subtotal is not positive.
var ErrEmptyCart = errs.NewValueIsInvalidError("cart is empty")

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFlat       CouponType = "flat"
)

// Coupon is a discount offered on the cart subtotal. MaxDiscount caps
// percentage coupons; flat coupons are always capped at the subtotal.
type Coupon struct {
	Code        string
	Type        CouponType
	Value       decimal.Decimal
	MaxDiscount *kernel.Money
	MinOrder    kernel.Money
}

func (c Coupon) Validate() error {
	var errList []error
	if c.Type != CouponPercentage && c.Type != CouponFlat {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"coupon type", fmt.Errorf("%q is not supported", string(c.Type))))
	}
	if c.Value.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"coupon value", fmt.Errorf("%s is negative", c.Value)))
	}
	if c.Type == CouponPercentage && c.Value.GreaterThan(decimal.NewFromInt(100)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("coupon percentage", c.Value, 0, 100))
	}
	return errors.Join(errList...)
}

// PricingPolicy holds the platform-wide pricing constants.
type PricingPolicy struct {
	DeliveryFee           kernel.Money
	FreeDeliveryThreshold kernel.Money
	PlatformFee           kernel.Money
	TaxRatePercent        decimal.Decimal
}

// DefaultPricingPolicy is a flat 25 delivery fee waived from 149, a platform
// fee of 5 and 5% tax.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		DeliveryFee:           kernel.MoneyFromInt(25),
		FreeDeliveryThreshold: kernel.MoneyFromInt(149),
		PlatformFee:           kernel.MoneyFromInt(5),
		TaxRatePercent:        decimal.NewFromInt(5),
	}
}

func (p PricingPolicy) Validate() error {
	var errList []error
	if p.DeliveryFee.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("delivery fee"))
	}
	if p.FreeDeliveryThreshold.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("free delivery threshold"))
	}
	if p.PlatformFee.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("platform fee"))
	}
	if p.TaxRatePercent.IsNegative() || p.TaxRatePercent.GreaterThan(decimal.NewFromInt(100)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("tax rate percent", p.TaxRatePercent, 0, 100))
	}
	return errors.Join(errList...)
}

// Cart is the input of a price calculation. FreeDeliveryThreshold overrides
// the policy threshold for restaurants that configure their own.
type Cart struct {
	Items                 []order.Item
	FreeDeliveryThreshold *kernel.Money
	Coupon                *Coupon
	Mode                  order.DeliveryMode
}

// Quote is a priced cart. Savings is what the customer did not pay thanks
// to the coupon and a waived delivery fee.
type Quote struct {
	order.Pricing
	Savings kernel.Money
}

// PricingCalculator prices carts. Every component is rounded to a whole
// currency unit before it is summed, so the total always equals the sum of
// the stored components.
type PricingCalculator struct {
	policy PricingPolicy
}

func NewPricingCalculator(policy PricingPolicy) (PricingCalculator, error) {
	if err := policy.Validate(); err != nil {
		return PricingCalculator{}, err
	}
	return PricingCalculator{policy: policy}, nil
}

func (c PricingCalculator) Policy() PricingPolicy {
	return c.policy
}

// Calculate prices the cart.
//
// Rules:
//   - subtotal is the rounded sum of price × quantity and must be positive
//   - the delivery fee is waived once the subtotal reaches the threshold, and
//     is never charged for pickup orders
//   - the coupon discount is zero below its minimum order and never exceeds
//     the subtotal
//   - tax is round(rate × (subtotal − discount))
func (c PricingCalculator) Calculate(cart Cart) (Quote, error) {
	if err := cart.Mode.Validate(); err != nil {
		return Quote{}, err
	}
	if cart.Coupon != nil {
		if err := cart.Coupon.Validate(); err != nil {
			return Quote{}, err
		}
	}

	subtotal := kernel.ZeroMoney()
	for _, item := range cart.Items {
		if err := item.Validate(); err != nil {
			return Quote{}, err
		}
		subtotal = subtotal.Add(item.LineTotal())
	}
	subtotal = subtotal.Round()
	if !subtotal.IsPositive() {
		return Quote{}, ErrEmptyCart
	}

	discount := c.discount(subtotal, cart.Coupon)

	threshold := c.policy.FreeDeliveryThreshold
	if cart.FreeDeliveryThreshold != nil {
		threshold = *cart.FreeDeliveryThreshold
	}
	deliveryFee := kernel.ZeroMoney()
	waived := kernel.ZeroMoney()
	if cart.Mode == order.ModeDelivery {
		if subtotal.GreaterThanOrEqual(threshold) {
			waived = c.policy.DeliveryFee.Round()
		} else {
			deliveryFee = c.policy.DeliveryFee.Round()
		}
	}

	platformFee := c.policy.PlatformFee.Round()
	tax := subtotal.Sub(discount).Percent(c.policy.TaxRatePercent).Round()

	pricing := order.Pricing{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		PlatformFee: platformFee,
		Tax:         tax,
	}
	pricing.Total = pricing.ExpectedTotal()

	return Quote{Pricing: pricing, Savings: discount.Add(waived)}, nil
}

func (c PricingCalculator) discount(subtotal kernel.Money, coupon *Coupon) kernel.Money {
	if coupon == nil || subtotal.LessThan(coupon.MinOrder) {
		return kernel.ZeroMoney()
	}

	var discount kernel.Money
	switch coupon.Type {
	case CouponPercentage:
		discount = subtotal.Percent(coupon.Value).Round()
		if coupon.MaxDiscount != nil {
			discount = discount.Min(coupon.MaxDiscount.Round())
		}
	case CouponFlat:
		discount = kernel.NewMoney(coupon.Value).Round()
	}
	return discount.Min(subtotal)
}
