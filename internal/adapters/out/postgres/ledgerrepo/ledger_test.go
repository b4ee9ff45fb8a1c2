package ledgerrepo_test

import (
	"testing"

	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) *ledgerrepo.GormWalletLedger {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&ledgerrepo.WalletTransactionDTO{}))
	return ledgerrepo.NewGormWalletLedger(db)
}

func TestGormWalletLedger_CreditsAndDebitsAreSigned(t *testing.T) {
	ledger := setup(t)
	ctx := t.Context()

	restaurantID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	require.NoError(t, ledger.Credit(ctx, ports.LedgerEntry{
		Account:  ports.LedgerRestaurant,
		EntityID: restaurantID,
		Amount:   kernel.MoneyFromInt(180),
		Reason:   "cancellation_compensation",
		OrderID:  orderID,
	}))
	require.NoError(t, ledger.Debit(ctx, ports.LedgerEntry{
		Account:  ports.LedgerRestaurant,
		EntityID: restaurantID,
		Amount:   kernel.MoneyFromFloat(27.5),
		Reason:   "adjustment",
		OrderID:  orderID,
	}))
	require.NoError(t, ledger.Debit(ctx, ports.LedgerEntry{
		Account:  ports.LedgerEscrow,
		EntityID: ports.PlatformAccountID,
		Amount:   kernel.MoneyFromInt(240),
		Reason:   "refund",
		OrderID:  orderID,
	}))

	balance, err := ledger.Balance(ctx, ports.LedgerRestaurant, restaurantID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(kernel.MoneyFromFloat(152.5)), balance.String())

	escrow, err := ledger.Balance(ctx, ports.LedgerEscrow, ports.PlatformAccountID)
	require.NoError(t, err)
	assert.True(t, escrow.Equal(kernel.MoneyFromInt(-240)), escrow.String())

	admin, err := ledger.Balance(ctx, ports.LedgerAdmin, ports.PlatformAccountID)
	require.NoError(t, err)
	assert.True(t, admin.IsZero())
}

func TestGormWalletLedger_RejectsInvalidEntries(t *testing.T) {
	ledger := setup(t)
	ctx := t.Context()

	err := ledger.Credit(ctx, ports.LedgerEntry{
		Account:  ports.LedgerAdmin,
		EntityID: ports.PlatformAccountID,
		Amount:   kernel.ZeroMoney(),
	})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	err = ledger.Debit(ctx, ports.LedgerEntry{
		EntityID: ports.PlatformAccountID,
		Amount:   kernel.MoneyFromInt(1),
	})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
