package services

import (
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ReconciliationTolerance is the largest gap between the split and the
// customer total that is silently booked to the platform leg.
var ReconciliationTolerance = kernel.MoneyFromInt(1)

// SettlementPolicy holds the platform-wide settlement constants.
type SettlementPolicy struct {
	DefaultCommissionPercent decimal.Decimal
	PartnerPayout            kernel.Money
}

// DefaultSettlementPolicy is a 10% commission and a payout of 30 per
// delivered order.
func DefaultSettlementPolicy() SettlementPolicy {
	return SettlementPolicy{
		DefaultCommissionPercent: decimal.NewFromInt(10),
		PartnerPayout:            kernel.MoneyFromInt(30),
	}
}

func (p SettlementPolicy) Validate() error {
	var errList []error
	if err := (settlement.Commission{
		Type:  settlement.CommissionPercentage,
		Value: p.DefaultCommissionPercent,
	}).Validate(); err != nil {
		errList = append(errList, err)
	}
	if p.PartnerPayout.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("partner payout"))
	}
	return errors.Join(errList...)
}

// SettlementCalculator computes the three-way split of a paid order.
//
// The restaurant gets the order amount minus commission. The partner gets
// the fixed payout for delivery orders. The platform keeps commission,
// platform fee, tax and what remains of the delivery fee once the partner is
// paid, which is negative when the platform subsidizes free delivery. The
// legs therefore always add up to the customer total.
type SettlementCalculator struct {
	policy SettlementPolicy
}

func NewSettlementCalculator(policy SettlementPolicy) (SettlementCalculator, error) {
	if err := policy.Validate(); err != nil {
		return SettlementCalculator{}, err
	}
	return SettlementCalculator{policy: policy}, nil
}

// SelectCommission picks the first matching rule, highest priority first and
// then lowest minimum order amount. Without a match the restaurant default
// applies, and without a valid default the global percentage.
func (c SettlementCalculator) SelectCommission(
	rules []settlement.CommissionRule,
	restaurantDefault *settlement.Commission,
	amount kernel.Money,
) settlement.Commission {
	ordered := append([]settlement.CommissionRule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].MinOrderAmount.LessThan(ordered[j].MinOrderAmount)
	})

	for _, r := range ordered {
		if r.Matches(amount) && r.Commission.Validate() == nil {
			return r.Commission
		}
	}

	if restaurantDefault != nil && restaurantDefault.Validate() == nil {
		return *restaurantDefault
	}

	return settlement.Commission{
		Type:  settlement.CommissionPercentage,
		Value: c.policy.DefaultCommissionPercent,
	}
}

// Calculate returns the split for the order. A gap of at most
// ReconciliationTolerance is absorbed by the platform leg; a larger one is
// reported by Reconcile.
func (c SettlementCalculator) Calculate(
	o *order.Order,
	rules []settlement.CommissionRule,
	restaurantDefault *settlement.Commission,
) (settlement.Split, error) {
	if err := o.Validate(); err != nil {
		return settlement.Split{}, err
	}

	p := o.Pricing()
	amount := p.OrderAmount()
	commission := c.SelectCommission(rules, restaurantDefault, amount).Apply(amount).Min(amount)

	payout := kernel.ZeroMoney()
	if o.Mode() == order.ModeDelivery {
		payout = c.policy.PartnerPayout
	}

	admin := settlement.AdminEarning{
		Commission:  commission,
		PlatformFee: p.PlatformFee,
		DeliveryFee: p.DeliveryFee.Sub(payout),
		GST:         p.Tax,
	}
	admin.TotalEarning = admin.Commission.Add(admin.PlatformFee).Add(admin.DeliveryFee).Add(admin.GST)

	split := settlement.Split{
		Restaurant: settlement.RestaurantEarning{
			Commission: commission,
			NetEarning: amount.Sub(commission),
		},
		Partner: settlement.DeliveryPartnerEarning{Amount: payout},
		Admin:   admin,
	}

	residue := p.Total.Sub(split.Sum())
	if !residue.IsZero() && !residue.Abs().GreaterThan(ReconciliationTolerance) {
		split.Admin.TotalEarning = split.Admin.TotalEarning.Add(residue)
	}
	return split, nil
}

// Reconcile returns a warning when the legs do not add up to total.
func (c SettlementCalculator) Reconcile(orderNumber string, split settlement.Split, total kernel.Money) error {
	sum := split.Sum()
	if sum.Equal(total) {
		return nil
	}
	return errs.NewReconciliationWarning(orderNumber, total, sum, total.Sub(sum))
}
