package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// RefundPolicy decides how much a cancelled order refunds and compensates,
// based on the furthest checkpoint the order reached.
//
//	stage                 refund                              compensation
//	pre_accept            total                               0
//	post_accept_pre_cook  subtotal - discount + delivery fee  0
//	post_cook             delivery fee + 0.5 × platform fee   net earning
//	post_pickup           0                                   net earning
//
// Platform earnings are reversed only for the first two stages. The partner
// earning is cancelled unless the order was already picked up.
type RefundPolicy struct{}

func NewRefundPolicy() RefundPolicy {
	return RefundPolicy{}
}

// ClassifyStage reads the tracking checkpoints, not the status, since a
// cancelled order no longer shows how far it got.
func (RefundPolicy) ClassifyStage(t order.Tracking) settlement.CancellationStage {
	switch {
	case t.Ready().Reached() || t.OutForDelivery().Reached() || t.Delivered().Reached():
		return settlement.StagePostPickup
	case t.Preparing().Reached():
		return settlement.StagePostCook
	case t.Confirmed().Reached():
		return settlement.StagePostAcceptPreCook
	default:
		return settlement.StagePreAccept
	}
}

// Evaluate computes the refund outcome of a cancelled order against its
// settlement.
func (p RefundPolicy) Evaluate(o *order.Order, s *settlement.OrderSettlement) (settlement.RefundOutcome, error) {
	if err := o.Validate(); err != nil {
		return settlement.RefundOutcome{}, err
	}
	if err := s.Validate(); err != nil {
		return settlement.RefundOutcome{}, err
	}
	if o.Status() != order.Cancelled {
		return settlement.RefundOutcome{}, errs.NewInvalidActionError("refund", o.Status().String())
	}

	stage := p.ClassifyStage(o.Tracking())
	paid := s.UserPayment()
	net := s.Split().Restaurant.NetEarning

	outcome := settlement.RefundOutcome{
		Stage:                  stage,
		RefundAmount:           kernel.ZeroMoney(),
		RestaurantCompensation: kernel.ZeroMoney(),
		CancelPartnerEarning:   stage != settlement.StagePostPickup,
	}

	switch stage {
	case settlement.StagePreAccept:
		outcome.RefundAmount = paid.Total
		outcome.ReverseAdmin = true
	case settlement.StagePostAcceptPreCook:
		outcome.RefundAmount = paid.Subtotal.Sub(paid.Discount).Add(paid.DeliveryFee)
		outcome.ReverseAdmin = true
	case settlement.StagePostCook:
		outcome.RefundAmount = paid.DeliveryFee.Add(paid.PlatformFee.Mul(half))
		outcome.RestaurantCompensation = net
	case settlement.StagePostPickup:
		outcome.RestaurantCompensation = net
	}

	return outcome, nil
}
