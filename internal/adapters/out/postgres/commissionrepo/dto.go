// Package commissionrepo reads restaurant commission schedules: bucketed
// rules by order amount and an optional per-restaurant default.
package commissionrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionRuleDTO is one bucket of a restaurant's schedule. A NULL
// max_order_amount leaves the bucket open above.
type CommissionRuleDTO struct {
	ID              uint             `gorm:"primaryKey;autoIncrement"`
	RestaurantID    uuid.UUID        `gorm:"type:uuid;index:idx_commission_rules_lookup,priority:1;not null"`
	MinOrderAmount  decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	MaxOrderAmount  *decimal.Decimal `gorm:"type:numeric(12,2)"`
	CommissionType  string           `gorm:"size:16;not null"`
	CommissionValue decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Priority        int              `gorm:"not null;default:0"`
	IsActive        bool             `gorm:"not null;index:idx_commission_rules_lookup,priority:2"`
}

func (CommissionRuleDTO) TableName() string {
	return "commission_rules"
}

// RestaurantCommissionDTO is the restaurant's fallback when no rule matches.
type RestaurantCommissionDTO struct {
	RestaurantID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CommissionType  string          `gorm:"size:16;not null"`
	CommissionValue decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (RestaurantCommissionDTO) TableName() string {
	return "restaurant_commissions"
}

func ruleFromDomain(restaurantID kernel.UUID, r settlement.CommissionRule) CommissionRuleDTO {
	dto := CommissionRuleDTO{
		RestaurantID:    restaurantID.Bytes(),
		MinOrderAmount:  r.MinOrderAmount.Decimal(),
		CommissionType:  string(r.Commission.Type),
		CommissionValue: r.Commission.Value,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
	}
	if r.MaxOrderAmount != nil {
		upper := r.MaxOrderAmount.Decimal()
		dto.MaxOrderAmount = &upper
	}
	return dto
}

func ruleToDomain(dto CommissionRuleDTO) (settlement.CommissionRule, error) {
	c := settlement.Commission{Type: settlement.CommissionType(dto.CommissionType), Value: dto.CommissionValue}
	if err := c.Validate(); err != nil {
		return settlement.CommissionRule{}, err
	}

	rule := settlement.CommissionRule{
		MinOrderAmount: kernel.NewMoney(dto.MinOrderAmount),
		Commission:     c,
		Priority:       dto.Priority,
		IsActive:       dto.IsActive,
	}
	if dto.MaxOrderAmount != nil {
		upper := kernel.NewMoney(*dto.MaxOrderAmount)
		rule.MaxOrderAmount = &upper
	}
	return rule, nil
}
