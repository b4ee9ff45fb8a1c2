package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	ledgerReasonReversal     = "cancellation_reversal"
	ledgerReasonCompensation = "cancellation_compensation"
)

// ComputeRefundResult reports the booked refund. Settled is false when the
// order never had a settlement (an online order cancelled before payment).
// Recorded is false when the refund had already been computed.
type ComputeRefundResult struct {
	Settled      bool
	Recorded     bool
	Outcome      settlement.RefundOutcome
	RefundStatus settlement.RefundStatus
}

type refundComputer interface {
	Handle(ctx context.Context, command ComputeRefundCommand) (ComputeRefundResult, error)
}

// ComputeRefundCommandHandler applies the refund policy to a cancelled order
// and records the outcome on its settlement. It must run after the
// cancellation is committed. Running it twice books nothing the second time.
//
// Ledger reversals and compensation are written after the settlement commit;
// a failed ledger write is logged as a reconciliation warning.
type ComputeRefundCommandHandler struct {
	uowFactory UoWFactory
	policy     services.RefundPolicy
	ledger     ports.WalletLedger
	logger     *slog.Logger
}

func NewComputeRefundCommandHandler(
	uowFactory UoWFactory,
	policy services.RefundPolicy,
	ledger ports.WalletLedger,
	logger *slog.Logger,
) ComputeRefundCommandHandler {
	return ComputeRefundCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		ledger:     ledger,
		logger:     logger.With("component", "compute_refund"),
	}
}

func (h ComputeRefundCommandHandler) Handle(ctx context.Context, command ComputeRefundCommand) (ComputeRefundResult, error) {
	if err := command.Validate(); err != nil {
		return ComputeRefundResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ComputeRefundResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return ComputeRefundResult{}, err
	}
	s, err := uow.SettlementRepository().GetByOrderID(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ComputeRefundResult{}, nil
	}
	if err != nil {
		return ComputeRefundResult{}, err
	}

	outcome, err := h.policy.Evaluate(o, s)
	if err != nil {
		return ComputeRefundResult{}, err
	}

	recorded, err := s.RecordCancellation(outcome, *o.CancelledAt())
	if err != nil {
		return ComputeRefundResult{}, err
	}
	if recorded {
		if err = uow.SettlementRepository().Update(ctx, s); err != nil {
			return ComputeRefundResult{}, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return ComputeRefundResult{}, err
	}

	if recorded {
		h.book(ctx, o, s, outcome)
		h.logger.InfoContext(ctx, "refund computed",
			"order_number", o.Number(),
			"stage", outcome.Stage,
			"refund", outcome.RefundAmount.String(),
			"compensation", outcome.RestaurantCompensation.String(),
			"refund_status", s.Cancellation().RefundStatus)
	}

	return ComputeRefundResult{
		Settled:      true,
		Recorded:     recorded,
		Outcome:      outcome,
		RefundStatus: s.Cancellation().RefundStatus,
	}, nil
}

func (h ComputeRefundCommandHandler) book(
	ctx context.Context,
	o *order.Order,
	s *settlement.OrderSettlement,
	outcome settlement.RefundOutcome,
) {
	if outcome.ReverseAdmin && s.Split().Admin.TotalEarning.IsPositive() {
		err := h.ledger.Debit(ctx, ports.LedgerEntry{
			Account:  ports.LedgerAdmin,
			EntityID: ports.PlatformAccountID,
			Amount:   s.Split().Admin.TotalEarning,
			Reason:   ledgerReasonReversal,
			OrderID:  o.ID(),
		})
		if err != nil {
			h.warn(ctx, o, s.Split().Admin.TotalEarning, err)
		}
	}

	if outcome.RestaurantCompensation.IsPositive() {
		err := h.ledger.Credit(ctx, ports.LedgerEntry{
			Account:  ports.LedgerRestaurant,
			EntityID: s.RestaurantID(),
			Amount:   outcome.RestaurantCompensation,
			Reason:   ledgerReasonCompensation,
			OrderID:  o.ID(),
		})
		if err != nil {
			h.warn(ctx, o, outcome.RestaurantCompensation, err)
		}
	}
}

func (h ComputeRefundCommandHandler) warn(ctx context.Context, o *order.Order, amount kernel.Money, err error) {
	warning := errs.NewReconciliationWarning(o.Number(), amount, kernel.ZeroMoney(), amount)
	h.logger.WarnContext(ctx, "ledger booking failed after refund computation",
		"order_number", o.Number(), "warning", warning, "error", err)
}
