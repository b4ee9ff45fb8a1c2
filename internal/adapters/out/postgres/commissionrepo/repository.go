package commissionrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommissionRuleProvider implements CommissionRuleProvider using GORM.
// Rules are read outside of any unit of work; they are configuration, not
// part of the order transaction.
type GormCommissionRuleProvider struct {
	db *gorm.DB
}

func NewGormCommissionRuleProvider(db *gorm.DB) *GormCommissionRuleProvider {
	return &GormCommissionRuleProvider{db: db}
}

// GetActiveRules returns the active rules of a restaurant, highest priority
// first.
func (p *GormCommissionRuleProvider) GetActiveRules(
	ctx context.Context,
	restaurantID kernel.UUID,
) ([]settlement.CommissionRule, error) {
	var dtos []CommissionRuleDTO
	if err := p.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID.Bytes(), true).
		Order("priority DESC").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]settlement.CommissionRule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := ruleToDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (p *GormCommissionRuleProvider) GetDefaultCommission(
	ctx context.Context,
	restaurantID kernel.UUID,
) (*settlement.Commission, error) {
	var dto RestaurantCommissionDTO
	err := p.db.WithContext(ctx).First(&dto, "restaurant_id = ?", restaurantID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c := settlement.Commission{Type: settlement.CommissionType(dto.CommissionType), Value: dto.CommissionValue}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddRule appends a bucket to a restaurant's schedule.
func (p *GormCommissionRuleProvider) AddRule(
	ctx context.Context,
	restaurantID kernel.UUID,
	rule settlement.CommissionRule,
) error {
	if err := rule.Commission.Validate(); err != nil {
		return err
	}
	dto := ruleFromDomain(restaurantID, rule)
	return p.db.WithContext(ctx).Create(&dto).Error
}

// SetDefaultCommission creates or replaces the restaurant's fallback.
func (p *GormCommissionRuleProvider) SetDefaultCommission(
	ctx context.Context,
	restaurantID kernel.UUID,
	c settlement.Commission,
) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := RestaurantCommissionDTO{
		RestaurantID:    restaurantID.Bytes(),
		CommissionType:  string(c.Type),
		CommissionValue: c.Value,
	}
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"commission_type", "commission_value"}),
		}).
		Create(&dto).Error
}
