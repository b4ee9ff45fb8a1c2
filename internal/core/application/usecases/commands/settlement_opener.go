package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// SettlementOpener creates the settlement of a paid order and books the
// escrow hold. It is shared by checkout (cash on delivery) and payment
// verification (online).
//
// The settlement is written in its own transaction after the order commit.
// Opening twice returns the existing settlement. A failed escrow booking is
// logged as a reconciliation warning and never rolls the settlement back.
type SettlementOpener struct {
	uowFactory UoWFactory
	rules      ports.CommissionRuleProvider
	calculator services.SettlementCalculator
	ledger     ports.WalletLedger
	logger     *slog.Logger
}

func NewSettlementOpener(
	uowFactory UoWFactory,
	rules ports.CommissionRuleProvider,
	calculator services.SettlementCalculator,
	ledger ports.WalletLedger,
	logger *slog.Logger,
) *SettlementOpener {
	return &SettlementOpener{
		uowFactory: uowFactory,
		rules:      rules,
		calculator: calculator,
		ledger:     ledger,
		logger:     logger.With("component", "settlement_opener"),
	}
}

// Open computes the split for o and persists the settlement. created is false
// when the order already had one.
func (s *SettlementOpener) Open(ctx context.Context, o *order.Order) (*settlement.OrderSettlement, bool, error) {
	if err := o.Validate(); err != nil {
		return nil, false, err
	}

	rules, err := s.rules.GetActiveRules(ctx, o.Restaurant().ID())
	if err != nil {
		return nil, false, err
	}
	restaurantDefault, err := s.rules.GetDefaultCommission(ctx, o.Restaurant().ID())
	if err != nil {
		return nil, false, err
	}

	split, err := s.calculator.Calculate(o, rules, restaurantDefault)
	if err != nil {
		return nil, false, err
	}
	if warning := s.calculator.Reconcile(o.Number(), split, o.Pricing().Total); warning != nil {
		s.logger.WarnContext(ctx, "settlement legs do not reconcile",
			"order_number", o.Number(), "error", warning)
	}

	opened, err := settlement.NewOrderSettlement(kernel.NewUUID(), o, split, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettlementRepository()
	created, err := repo.Add(ctx, opened)
	if err != nil {
		return nil, false, err
	}
	if !created {
		existing, getErr := repo.GetByOrderID(ctx, o.ID())
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, uow.Commit(ctx)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	s.holdEscrow(ctx, opened)
	return opened, true, nil
}

func (s *SettlementOpener) holdEscrow(ctx context.Context, opened *settlement.OrderSettlement) {
	total := opened.UserPayment().Total
	err := s.ledger.Credit(ctx, ports.LedgerEntry{
		Account:  ports.LedgerEscrow,
		EntityID: ports.PlatformAccountID,
		Amount:   total,
		Reason:   "escrow_hold",
		OrderID:  opened.OrderID(),
	})
	if err != nil {
		warning := errs.NewReconciliationWarning(opened.OrderNumber(), total, kernel.ZeroMoney(), total)
		s.logger.WarnContext(ctx, "escrow hold was not booked",
			"order_number", opened.OrderNumber(), "warning", warning, "error", err)
	}
}
