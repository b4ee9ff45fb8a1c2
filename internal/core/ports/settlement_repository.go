package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"
)

// SettlementRepository defines the persistence contract for order
// settlements. There is at most one settlement per order.
type SettlementRepository interface {
	// Add stores a new settlement. It returns false, without error, when the
	// order already has one, so opening a settlement twice is harmless.
	Add(ctx context.Context, aggregate *settlement.OrderSettlement) (bool, error)

	// Update is conditional on the loaded version.
	Update(ctx context.Context, aggregate *settlement.OrderSettlement) error

	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*settlement.OrderSettlement, error)
}

// CommissionRuleProvider exposes a restaurant's commission schedule.
type CommissionRuleProvider interface {
	GetActiveRules(ctx context.Context, restaurantID kernel.UUID) ([]settlement.CommissionRule, error)

	// GetDefaultCommission returns nil when the restaurant has no default.
	GetDefaultCommission(ctx context.Context, restaurantID kernel.UUID) (*settlement.Commission, error)
}
