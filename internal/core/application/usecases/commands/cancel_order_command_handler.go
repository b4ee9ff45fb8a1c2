package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/core/ports"
)

type CancelOrderResult struct {
	Refund ComputeRefundResult

	// RefundExecuted is set when the gateway refund was issued right away.
	RefundExecuted bool
}

// CancelOrderCommandHandler commits the cancellation first and only then
// computes the refund, so the refund always sees a durable cancelled status.
//
// When an executor is configured, a pending refund is sent to the gateway
// immediately. A failed execution is logged and left for the retry job;
// without an executor refunds wait for manual execution.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	refunds    refundComputer
	executor   refundExecutor
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	refunds refundComputer,
	executor refundExecutor,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		refunds:    refunds,
		executor:   executor,
		publisher:  publisher,
		logger:     logger.With("component", "cancel_order"),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (CancelOrderResult, error) {
	if err := command.Validate(); err != nil {
		return CancelOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CancelOrderResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return CancelOrderResult{}, err
	}
	if err = o.Cancel(command.Reason(), command.Actor(), time.Now().UTC()); err != nil {
		return CancelOrderResult{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return CancelOrderResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return CancelOrderResult{}, err
	}
	publishCommitted(ctx, h.publisher, uow)

	h.logger.InfoContext(ctx, "order cancelled",
		"order_number", o.Number(), "actor", command.Actor(), "reason", command.Reason())

	computeCmd, err := NewComputeRefundCommand(o.ID())
	if err != nil {
		return CancelOrderResult{}, err
	}
	refund, err := h.refunds.Handle(ctx, computeCmd)
	if err != nil {
		return CancelOrderResult{}, fmt.Errorf("order %s cancelled, refund not computed: %w", o.Number(), err)
	}

	result := CancelOrderResult{Refund: refund}
	if h.executor == nil || refund.RefundStatus != settlement.RefundPending {
		return result, nil
	}

	executeCmd, err := NewExecuteRefundCommand(o.ID())
	if err != nil {
		return result, err
	}
	executed, err := h.executor.Handle(ctx, executeCmd)
	if err != nil {
		h.logger.WarnContext(ctx, "refund execution deferred to retry",
			"order_number", o.Number(), "error", err)
		return result, nil
	}

	result.Refund.RefundStatus = executed.RefundStatus
	result.RefundExecuted = true
	return result, nil
}
