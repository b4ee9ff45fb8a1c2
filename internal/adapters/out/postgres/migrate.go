package postgres

import (
	"fulfillment/internal/adapters/out/postgres/commissionrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/partnerrepo"
	"fulfillment/internal/adapters/out/postgres/settlementrepo"
	"fulfillment/internal/adapters/out/postgres/zonerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&partnerrepo.PartnerDTO{},
		&zonerepo.ZoneDTO{},
		&settlementrepo.SettlementDTO{},
		&commissionrepo.CommissionRuleDTO{},
		&commissionrepo.RestaurantCommissionDTO{},
		&ledgerrepo.WalletTransactionDTO{},
	)
}
