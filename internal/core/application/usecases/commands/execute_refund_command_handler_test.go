package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// cancelledSettlement returns a settlement whose post cook refund of 27.5 is
// pending.
func cancelledSettlement(t *testing.T, o *order.Order) *settlement.OrderSettlement {
	t.Helper()
	s := settlementFor(t, o)
	require.NoError(t, o.Cancel("", order.ActorUser, t0))
	outcome, err := services.NewRefundPolicy().Evaluate(o, s)
	require.NoError(t, err)
	_, err = s.RecordCancellation(outcome, t0)
	require.NoError(t, err)
	return s
}

func executeCmd(t *testing.T, id kernel.UUID) commands.ExecuteRefundCommand {
	t.Helper()
	cmd, err := commands.NewExecuteRefundCommand(id)
	require.NoError(t, err)
	return cmd
}

func TestExecuteRefundCommandHandler_Handle(t *testing.T) {
	t.Run("should initiate, refund through the gateway and record the refund id", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		o := acceptedOrder(t)
		s := cancelledSettlement(t, o)

		f.settlements.On("GetByOrderID", ctx, o.ID()).Return(s, nil).Twice()
		f.settlements.On("Update", ctx, s).Return(nil).Twice()
		f.uow.On("Commit", ctx).Return(nil).Twice()
		f.payments.On("CreateRefund", ctx, "pay_1", int64(2750), mock.MatchedBy(func(notes map[string]string) bool {
			return notes["order_number"] == o.Number() && notes["stage"] == "post_cook" && notes["attempt"] == "1"
		})).Return("rfnd_1", nil).Once()
		f.ledger.On("Debit", ctx, mock.MatchedBy(func(e ports.LedgerEntry) bool {
			return e.Account == ports.LedgerEscrow && e.Amount.String() == "27.5"
		})).Return(nil).Once()

		handler := commands.NewExecuteRefundCommandHandler(f.factory, f.payments, f.ledger, discardLogger())
		result, err := handler.Handle(ctx, executeCmd(t, o.ID()))

		require.NoError(t, err)
		assert.Equal(t, "rfnd_1", result.RefundID)
		assert.Equal(t, settlement.RefundProcessed, result.RefundStatus)
		assert.Equal(t, settlement.RefundProcessed, s.Cancellation().RefundStatus)
		f.assertExpectations(t)
	})

	t.Run("should leave the refund failed and retryable on a gateway error", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		o := acceptedOrder(t)
		s := cancelledSettlement(t, o)

		f.settlements.On("GetByOrderID", ctx, o.ID()).Return(s, nil).Twice()
		f.settlements.On("Update", ctx, s).Return(nil).Twice()
		f.uow.On("Commit", ctx).Return(nil).Twice()
		f.payments.On("CreateRefund", ctx, "pay_1", int64(2750), mock.Anything).
			Return("", errors.New("insufficient balance")).Once()

		handler := commands.NewExecuteRefundCommandHandler(f.factory, f.payments, f.ledger, discardLogger())
		result, err := handler.Handle(ctx, executeCmd(t, o.ID()))

		require.ErrorIs(t, err, errs.ErrGateway)
		assert.Equal(t, settlement.RefundFailed, result.RefundStatus)
		assert.Equal(t, "insufficient balance", s.Cancellation().LastRefundError)
		require.NoError(t, s.BeginRefund(t0))
		assert.Equal(t, 2, s.Cancellation().RefundAttempts)
		f.ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything)
	})

	t.Run("should refuse a cash order", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		o := newOrder(t, order.ModeDelivery, order.PaymentCOD)
		s := cancelledSettlement(t, o)

		f.settlements.On("GetByOrderID", ctx, o.ID()).Return(s, nil).Once()

		handler := commands.NewExecuteRefundCommandHandler(f.factory, f.payments, f.ledger, discardLogger())
		_, err := handler.Handle(ctx, executeCmd(t, o.ID()))

		require.ErrorIs(t, err, settlement.ErrRefundNotApplicable)
		f.payments.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should not reach the gateway when another execution won", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture()
		o := acceptedOrder(t)
		s := cancelledSettlement(t, o)

		f.settlements.On("GetByOrderID", ctx, o.ID()).Return(s, nil).Once()
		f.settlements.On("Update", ctx, s).Return(errs.NewVersionIsInvalidError("settlement")).Once()

		handler := commands.NewExecuteRefundCommandHandler(f.factory, f.payments, f.ledger, discardLogger())
		_, err := handler.Handle(ctx, executeCmd(t, o.ID()))

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		f.payments.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
