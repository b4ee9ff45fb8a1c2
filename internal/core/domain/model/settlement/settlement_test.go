package settlement_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newPaidOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()

	rl, _ := kernel.NewLocation(12.97, 77.59)
	r, err := order.NewRestaurantSnapshot(kernel.NewUUID(), "Biryani House", rl)
	require.NoError(t, err)
	cl, _ := kernel.NewLocation(12.93, 77.62)
	addr, err := order.NewAddress("HSR Layout", cl)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Biryani", kernel.MoneyFromInt(200), 1)
	require.NoError(t, err)

	o, err := order.NewOrder(order.Draft{
		ID:         kernel.NewUUID(),
		Number:     "ORD-0000ABCD",
		UserID:     kernel.NewUUID(),
		Restaurant: r,
		Items:      []order.Item{item},
		Address:    addr,
		Pricing: order.Pricing{
			Subtotal:    kernel.MoneyFromInt(200),
			DeliveryFee: kernel.MoneyFromInt(25),
			PlatformFee: kernel.MoneyFromInt(5),
			Tax:         kernel.MoneyFromInt(10),
			Total:       kernel.MoneyFromInt(240),
		},
		Mode:      order.ModeDelivery,
		Method:    method,
		CreatedAt: at,
	})
	require.NoError(t, err)

	if method == order.PaymentOnline {
		_, err = o.MarkPaymentPaid("pay_1", at)
		require.NoError(t, err)
	}
	return o
}

func split() settlement.Split {
	return settlement.Split{
		Restaurant: settlement.RestaurantEarning{
			Commission: kernel.MoneyFromInt(20),
			NetEarning: kernel.MoneyFromInt(180),
		},
		Partner: settlement.DeliveryPartnerEarning{Amount: kernel.MoneyFromInt(30)},
		Admin: settlement.AdminEarning{
			Commission:   kernel.MoneyFromInt(20),
			PlatformFee:  kernel.MoneyFromInt(5),
			DeliveryFee:  kernel.MoneyFromInt(-5),
			GST:          kernel.MoneyFromInt(10),
			TotalEarning: kernel.MoneyFromInt(30),
		},
	}
}

func newSettlement(t *testing.T, method order.PaymentMethod) *settlement.OrderSettlement {
	t.Helper()
	s, err := settlement.NewOrderSettlement(kernel.NewUUID(), newPaidOrder(t, method), split(), at)
	require.NoError(t, err)
	return s
}

func TestNewOrderSettlement(t *testing.T) {
	o := newPaidOrder(t, order.PaymentOnline)

	s, err := settlement.NewOrderSettlement(kernel.NewUUID(), o, split(), at)

	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, "ORD-0000ABCD", s.OrderNumber())
	assert.True(t, o.ID().IsEqual(s.OrderID()))
	assert.Equal(t, "pay_1", s.PaymentID())
	assert.Equal(t, settlement.EscrowHeld, s.EscrowStatus())
	assert.Equal(t, settlement.StatusPending, s.SettlementStatus())
	assert.Equal(t, settlement.EarningPending, s.Split().Restaurant.Status)
	assert.Equal(t, settlement.EarningPending, s.Split().Partner.Status)
	assert.Equal(t, settlement.EarningPending, s.Split().Admin.Status)
	assert.Equal(t, "240", s.UserPayment().Total.String())
	assert.Equal(t, "10", s.UserPayment().GST.String())
	assert.True(t, s.Split().Sum().Equal(s.UserPayment().Total))
	assert.False(t, s.IsCancelled())

	t.Run("rejects unconstructed order", func(t *testing.T) {
		_, err := settlement.NewOrderSettlement(kernel.NewUUID(), &order.Order{}, split(), at)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}

func TestOrderSettlement_RecordCancellation(t *testing.T) {
	t.Run("post cook compensates restaurant and refunds customer", func(t *testing.T) {
		s := newSettlement(t, order.PaymentOnline)
		refund, _ := kernel.ParseMoney("27.5")

		changed, err := s.RecordCancellation(settlement.RefundOutcome{
			Stage:                  settlement.StagePostCook,
			RefundAmount:           refund,
			RestaurantCompensation: kernel.MoneyFromInt(180),
			CancelPartnerEarning:   true,
		}, at)

		require.NoError(t, err)
		assert.True(t, changed)
		c := s.Cancellation()
		assert.True(t, c.Cancelled)
		assert.Equal(t, settlement.StagePostCook, c.Stage)
		assert.Equal(t, "27.5", c.RefundAmount.String())
		assert.Equal(t, "180", c.RestaurantCompensation.String())
		assert.Equal(t, settlement.RefundPending, c.RefundStatus)
		assert.Equal(t, settlement.EscrowRefunded, s.EscrowStatus())
		assert.Equal(t, settlement.StatusCancelled, s.SettlementStatus())
		assert.Equal(t, settlement.EarningCompensated, s.Split().Restaurant.Status)
		assert.Equal(t, settlement.EarningCancelled, s.Split().Partner.Status)
		assert.Equal(t, settlement.EarningPending, s.Split().Admin.Status)
	})

	t.Run("second recording is a no-op", func(t *testing.T) {
		s := newSettlement(t, order.PaymentOnline)
		first := settlement.RefundOutcome{
			Stage:        settlement.StagePreAccept,
			RefundAmount: kernel.MoneyFromInt(240),
			ReverseAdmin: true,
		}
		_, err := s.RecordCancellation(first, at)
		require.NoError(t, err)

		changed, err := s.RecordCancellation(settlement.RefundOutcome{
			Stage:        settlement.StagePostPickup,
			RefundAmount: kernel.ZeroMoney(),
		}, at.Add(time.Hour))

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, settlement.StagePreAccept, s.Cancellation().Stage)
		assert.Equal(t, "240", s.Cancellation().RefundAmount.String())
		assert.Equal(t, at, *s.Cancellation().CancelledAt)
		assert.Equal(t, settlement.EarningReversed, s.Split().Admin.Status)
	})

	t.Run("cash on delivery refund is not applicable", func(t *testing.T) {
		s := newSettlement(t, order.PaymentCOD)

		_, err := s.RecordCancellation(settlement.RefundOutcome{
			Stage:        settlement.StagePreAccept,
			RefundAmount: kernel.MoneyFromInt(240),
			ReverseAdmin: true,
		}, at)

		require.NoError(t, err)
		assert.Equal(t, settlement.RefundNotApplicable, s.Cancellation().RefundStatus)
		assert.Equal(t, settlement.EscrowReleased, s.EscrowStatus())
		assert.Equal(t, settlement.EarningReversed, s.Split().Admin.Status)
		require.ErrorIs(t, s.BeginRefund(at), settlement.ErrRefundNotApplicable)
	})

	t.Run("zero refund releases escrow", func(t *testing.T) {
		s := newSettlement(t, order.PaymentOnline)

		_, err := s.RecordCancellation(settlement.RefundOutcome{
			Stage:                  settlement.StagePostPickup,
			RestaurantCompensation: kernel.MoneyFromInt(180),
		}, at)

		require.NoError(t, err)
		assert.Equal(t, settlement.RefundNotApplicable, s.Cancellation().RefundStatus)
		assert.Equal(t, settlement.EscrowReleased, s.EscrowStatus())
		assert.Equal(t, settlement.EarningPending, s.Split().Partner.Status)
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		s := newSettlement(t, order.PaymentOnline)

		_, err := s.RecordCancellation(settlement.RefundOutcome{RefundAmount: kernel.MoneyFromInt(-1)}, at)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.False(t, s.IsCancelled())
	})
}

func TestOrderSettlement_RefundExecution(t *testing.T) {
	cancelled := func(t *testing.T) *settlement.OrderSettlement {
		s := newSettlement(t, order.PaymentOnline)
		_, err := s.RecordCancellation(settlement.RefundOutcome{
			Stage:        settlement.StagePreAccept,
			RefundAmount: kernel.MoneyFromInt(240),
		}, at)
		require.NoError(t, err)
		return s
	}

	t.Run("pending -> initiated -> processed", func(t *testing.T) {
		s := cancelled(t)

		require.NoError(t, s.BeginRefund(at.Add(time.Minute)))
		assert.Equal(t, settlement.RefundInitiated, s.Cancellation().RefundStatus)
		require.NotNil(t, s.Cancellation().RefundInitiatedAt)
		assert.Equal(t, at.Add(time.Minute), *s.Cancellation().RefundInitiatedAt)
		require.NoError(t, s.CompleteRefund("rfnd_77"))

		assert.Equal(t, settlement.RefundProcessed, s.Cancellation().RefundStatus)
		assert.Equal(t, "rfnd_77", s.Cancellation().RefundID)
		assert.Equal(t, 1, s.Cancellation().RefundAttempts)
	})

	t.Run("processed refund never restarts", func(t *testing.T) {
		s := cancelled(t)
		require.NoError(t, s.BeginRefund(at))
		require.NoError(t, s.CompleteRefund("rfnd_77"))

		require.ErrorIs(t, s.BeginRefund(at), errs.ErrInvalidTransition)
		require.ErrorIs(t, s.FailRefund("late"), errs.ErrInvalidTransition)
	})

	t.Run("failed refund may be retried", func(t *testing.T) {
		s := cancelled(t)
		require.NoError(t, s.BeginRefund(at))
		require.NoError(t, s.FailRefund("gateway timeout"))
		assert.Equal(t, settlement.RefundFailed, s.Cancellation().RefundStatus)
		assert.Equal(t, "gateway timeout", s.Cancellation().LastRefundError)

		require.NoError(t, s.BeginRefund(at))
		require.NoError(t, s.CompleteRefund("rfnd_78"))
		assert.Equal(t, 2, s.Cancellation().RefundAttempts)
		assert.Empty(t, s.Cancellation().LastRefundError)
	})

	t.Run("initiated refund cannot begin twice", func(t *testing.T) {
		s := cancelled(t)
		require.NoError(t, s.BeginRefund(at))

		require.ErrorIs(t, s.BeginRefund(at), errs.ErrInvalidTransition)
	})

	t.Run("complete without begin is rejected", func(t *testing.T) {
		s := cancelled(t)

		require.ErrorIs(t, s.CompleteRefund("rfnd"), errs.ErrInvalidTransition)
	})

	t.Run("live settlement has nothing to refund", func(t *testing.T) {
		s := newSettlement(t, order.PaymentOnline)

		require.ErrorIs(t, s.BeginRefund(at), settlement.ErrRefundNotApplicable)
	})
}

func TestCommission(t *testing.T) {
	amount := kernel.MoneyFromInt(205)

	t.Run("percentage rounds to whole units", func(t *testing.T) {
		c := settlement.PercentageCommission(10)

		assert.Equal(t, "21", c.Apply(amount).String())
		require.NoError(t, c.Validate())
	})

	t.Run("flat ignores amount", func(t *testing.T) {
		c := settlement.Commission{Type: settlement.CommissionFlat, Value: decimal.NewFromInt(15)}

		assert.Equal(t, "15", c.Apply(amount).String())
	})

	t.Run("validation", func(t *testing.T) {
		assert.Error(t, settlement.Commission{Type: "tiered", Value: decimal.NewFromInt(1)}.Validate())
		assert.Error(t, settlement.PercentageCommission(120).Validate())
		assert.Error(t, settlement.Commission{Type: settlement.CommissionFlat, Value: decimal.NewFromInt(-1)}.Validate())
	})
}

func TestCommissionRule_Matches(t *testing.T) {
	maxAmount := kernel.MoneyFromInt(500)
	rule := settlement.CommissionRule{
		MinOrderAmount: kernel.MoneyFromInt(100),
		MaxOrderAmount: &maxAmount,
		Commission:     settlement.PercentageCommission(12),
		IsActive:       true,
	}

	assert.False(t, rule.Matches(kernel.MoneyFromInt(99)))
	assert.True(t, rule.Matches(kernel.MoneyFromInt(100)))
	assert.True(t, rule.Matches(kernel.MoneyFromInt(500)))
	assert.False(t, rule.Matches(kernel.MoneyFromInt(501)))

	unbounded := rule
	unbounded.MaxOrderAmount = nil
	assert.True(t, unbounded.Matches(kernel.MoneyFromInt(100000)))

	inactive := rule
	inactive.IsActive = false
	assert.False(t, inactive.Matches(kernel.MoneyFromInt(200)))
}
