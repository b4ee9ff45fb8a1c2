// Package ledgerrepo is the append-only wallet transaction log. Every credit
// or debit is a new row with a signed amount; rows are never updated.
package ledgerrepo

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletTransactionDTO is one ledger movement. Credits are positive, debits
// negative.
type WalletTransactionDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EntityType string          `gorm:"size:32;not null;index:idx_wallet_entity,priority:1"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_entity,priority:2"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reason     string          `gorm:"size:64;not null"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

func (WalletTransactionDTO) TableName() string {
	return "wallet_transactions"
}

// GormWalletLedger implements WalletLedger using GORM.
type GormWalletLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormWalletLedger(db *gorm.DB) *GormWalletLedger {
	return &GormWalletLedger{db: db, now: time.Now}
}

func (l *GormWalletLedger) Credit(ctx context.Context, entry ports.LedgerEntry) error {
	return l.append(ctx, entry, entry.Amount)
}

func (l *GormWalletLedger) Debit(ctx context.Context, entry ports.LedgerEntry) error {
	return l.append(ctx, entry, entry.Amount.Neg())
}

// Balance sums the movements of one wallet.
func (l *GormWalletLedger) Balance(
	ctx context.Context,
	account ports.LedgerAccount,
	entityID kernel.UUID,
) (kernel.Money, error) {
	var rows []WalletTransactionDTO
	if err := l.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", string(account), entityID.Bytes()).
		Find(&rows).Error; err != nil {
		return kernel.Money{}, err
	}

	total := kernel.ZeroMoney()
	for _, row := range rows {
		total = total.Add(kernel.NewMoney(row.Amount))
	}
	return total, nil
}

func (l *GormWalletLedger) append(ctx context.Context, entry ports.LedgerEntry, signed kernel.Money) error {
	if !entry.Amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("ledger amount",
			fmt.Errorf("%s must be positive", entry.Amount))
	}
	if entry.Account == "" {
		return errs.NewValueIsRequiredError("ledger account")
	}
	if err := entry.EntityID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("ledger entity id", err)
	}

	dto := WalletTransactionDTO{
		ID:         kernel.NewUUID().Bytes(),
		EntityType: string(entry.Account),
		EntityID:   entry.EntityID.Bytes(),
		Amount:     signed.Decimal(),
		Reason:     entry.Reason,
		OrderID:    entry.OrderID.Bytes(),
		CreatedAt:  l.now().UTC(),
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}
