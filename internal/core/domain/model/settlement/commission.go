package settlement

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CommissionType selects how a commission value is applied.
type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFlat       CommissionType = "flat"
)

var hundred = decimal.NewFromInt(100)

// Commission is the platform's cut of the restaurant's order amount.
type Commission struct {
	Type  CommissionType
	Value decimal.Decimal
}

// PercentageCommission is a shorthand used for the global fallback rate.
func PercentageCommission(pct int64) Commission {
	return Commission{Type: CommissionPercentage, Value: decimal.NewFromInt(pct)}
}

func (c Commission) Validate() error {
	var errList []error
	switch c.Type {
	case CommissionPercentage:
		if c.Value.GreaterThan(hundred) {
			errList = append(errList, errs.NewValueIsOutOfRangeError("commission percentage", c.Value, 0, 100))
		}
	case CommissionFlat:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"commission type", fmt.Errorf("%q is not supported", string(c.Type))))
	}
	if c.Value.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"commission value", fmt.Errorf("%s is negative", c.Value)))
	}
	return errors.Join(errList...)
}

// Apply returns round(amount × value / 100) for percentages and the value
// itself for flat commissions.
func (c Commission) Apply(amount kernel.Money) kernel.Money {
	if c.Type == CommissionFlat {
		return kernel.NewMoney(c.Value)
	}
	return amount.Percent(c.Value).Round()
}

// CommissionRule is one bucket of a restaurant's commission schedule. A nil
// MaxOrderAmount means the bucket is unbounded above.
type CommissionRule struct {
	MinOrderAmount kernel.Money
	MaxOrderAmount *kernel.Money
	Commission     Commission
	Priority       int
	IsActive       bool
}

// Matches reports whether the rule is active and amount falls in
// [MinOrderAmount, MaxOrderAmount].
func (r CommissionRule) Matches(amount kernel.Money) bool {
	if !r.IsActive {
		return false
	}
	if amount.LessThan(r.MinOrderAmount) {
		return false
	}
	return r.MaxOrderAmount == nil || !amount.GreaterThan(*r.MaxOrderAmount)
}
