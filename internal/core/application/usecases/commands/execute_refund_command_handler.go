package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type ExecuteRefundResult struct {
	RefundID     string
	RefundStatus settlement.RefundStatus
	Amount       kernel.Money
}

type refundExecutor interface {
	Handle(ctx context.Context, command ExecuteRefundCommand) (ExecuteRefundResult, error)
}

// ExecuteRefundCommandHandler issues the gateway refund of a settlement whose
// refund is pending or failed.
//
// The refund is marked initiated and committed before the gateway is
// called, so two concurrent executions cannot both reach the gateway: the
// second one fails the settlement version check. The gateway result is then
// written in a second transaction. A gateway failure leaves the refund in
// failed, from where it can be executed again.
type ExecuteRefundCommandHandler struct {
	uowFactory UoWFactory
	payments   ports.PaymentGateway
	ledger     ports.WalletLedger
	logger     *slog.Logger
}

func NewExecuteRefundCommandHandler(
	uowFactory UoWFactory,
	payments ports.PaymentGateway,
	ledger ports.WalletLedger,
	logger *slog.Logger,
) ExecuteRefundCommandHandler {
	return ExecuteRefundCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		ledger:     ledger,
		logger:     logger.With("component", "execute_refund"),
	}
}

func (h ExecuteRefundCommandHandler) Handle(ctx context.Context, command ExecuteRefundCommand) (ExecuteRefundResult, error) {
	if err := command.Validate(); err != nil {
		return ExecuteRefundResult{}, err
	}

	s, err := h.begin(ctx, command)
	if err != nil {
		return ExecuteRefundResult{}, err
	}

	cancellation := s.Cancellation()
	refundID, gatewayErr := h.payments.CreateRefund(ctx, s.PaymentID(), cancellation.RefundAmount.MinorUnits(),
		map[string]string{
			"order_number": s.OrderNumber(),
			"stage":        string(cancellation.Stage),
			"attempt":      strconv.Itoa(cancellation.RefundAttempts),
		})

	s, err = h.finish(ctx, command, refundID, gatewayErr)
	if err != nil {
		if gatewayErr == nil {
			h.logger.ErrorContext(ctx, "gateway refund issued but not recorded",
				"order_id", command.OrderID(), "refund_id", refundID, "error", err)
		}
		return ExecuteRefundResult{}, err
	}

	result := ExecuteRefundResult{
		RefundID:     s.Cancellation().RefundID,
		RefundStatus: s.Cancellation().RefundStatus,
		Amount:       s.Cancellation().RefundAmount,
	}

	if gatewayErr != nil {
		h.logger.WarnContext(ctx, "gateway refund failed",
			"order_number", s.OrderNumber(), "attempt", s.Cancellation().RefundAttempts, "error", gatewayErr)
		return result, errs.NewGatewayError("create refund", gatewayErr)
	}

	err = h.ledger.Debit(ctx, ports.LedgerEntry{
		Account:  ports.LedgerEscrow,
		EntityID: ports.PlatformAccountID,
		Amount:   result.Amount,
		Reason:   "refund",
		OrderID:  s.OrderID(),
	})
	if err != nil {
		warning := errs.NewReconciliationWarning(s.OrderNumber(), result.Amount, kernel.ZeroMoney(), result.Amount)
		h.logger.WarnContext(ctx, "escrow refund debit was not booked",
			"order_number", s.OrderNumber(), "warning", warning, "error", err)
	}

	return result, nil
}

func (h ExecuteRefundCommandHandler) begin(ctx context.Context, command ExecuteRefundCommand) (*settlement.OrderSettlement, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettlementRepository()
	s, err := repo.GetByOrderID(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if err = s.BeginRefund(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, uow.Commit(ctx)
}

func (h ExecuteRefundCommandHandler) finish(
	ctx context.Context,
	command ExecuteRefundCommand,
	refundID string,
	gatewayErr error,
) (*settlement.OrderSettlement, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettlementRepository()
	s, err := repo.GetByOrderID(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if gatewayErr != nil {
		err = s.FailRefund(gatewayErr.Error())
	} else {
		err = s.CompleteRefund(refundID)
	}
	if err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, uow.Commit(ctx)
}
