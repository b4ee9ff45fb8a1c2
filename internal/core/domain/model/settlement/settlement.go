package settlement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

var ErrOrderSettlementIsNotConstructed = errors.New(
	"OrderSettlement must be created via NewOrderSettlement constructor")

// ErrRefundNotApplicable is returned when a refund is executed for a
// settlement that has nothing to refund through the gateway.
var ErrRefundNotApplicable = errs.NewValueIsInvalidError("refund is not applicable")

type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowRefunded EscrowStatus = "refunded"
	EscrowReleased EscrowStatus = "released"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSettled   Status = "settled"
	StatusCancelled Status = "cancelled"
)

// EarningStatus is the state of one leg of the split.
type EarningStatus string

const (
	EarningPending     EarningStatus = "pending"
	EarningCancelled   EarningStatus = "cancelled"
	EarningCompensated EarningStatus = "compensated"
	EarningReversed    EarningStatus = "reversed"
)

// RefundStatus only moves forward: pending -> initiated -> processed, or
// initiated -> failed, from which a new attempt may start.
type RefundStatus string

const (
	RefundPending       RefundStatus = "pending"
	RefundInitiated     RefundStatus = "initiated"
	RefundProcessed     RefundStatus = "processed"
	RefundFailed        RefundStatus = "failed"
	RefundNotApplicable RefundStatus = "not_applicable"
)

// CancellationStage is the furthest checkpoint an order reached before it
// was cancelled.
type CancellationStage string

const (
	StagePreAccept         CancellationStage = "pre_accept"
	StagePostAcceptPreCook CancellationStage = "post_accept_pre_cook"
	StagePostCook          CancellationStage = "post_cook"
	StagePostPickup        CancellationStage = "post_pickup"
)

// UserPayment is a frozen copy of the order pricing.
type UserPayment struct {
	Subtotal    kernel.Money
	Discount    kernel.Money
	DeliveryFee kernel.Money
	PlatformFee kernel.Money
	GST         kernel.Money
	Total       kernel.Money
}

// UserPaymentFromPricing copies an order's price breakdown.
func UserPaymentFromPricing(p order.Pricing) UserPayment {
	return UserPayment{
		Subtotal:    p.Subtotal,
		Discount:    p.Discount,
		DeliveryFee: p.DeliveryFee,
		PlatformFee: p.PlatformFee,
		GST:         p.Tax,
		Total:       p.Total,
	}
}

type RestaurantEarning struct {
	Commission kernel.Money
	NetEarning kernel.Money
	Status     EarningStatus
}

type DeliveryPartnerEarning struct {
	Amount kernel.Money
	Status EarningStatus
}

// AdminEarning is the platform's share. DeliveryFee here is the part of the
// customer-paid delivery fee the platform keeps, tracked separately from the
// partner payout.
type AdminEarning struct {
	Commission   kernel.Money
	PlatformFee  kernel.Money
	DeliveryFee  kernel.Money
	GST          kernel.Money
	TotalEarning kernel.Money
	Status       EarningStatus
}

// Split is the three-way division of one customer payment.
type Split struct {
	Restaurant RestaurantEarning
	Partner    DeliveryPartnerEarning
	Admin      AdminEarning
}

// Sum is what the three legs add up to.
func (s Split) Sum() kernel.Money {
	return s.Restaurant.NetEarning.Add(s.Admin.TotalEarning).Add(s.Partner.Amount)
}

type CancellationDetails struct {
	Cancelled              bool
	CancelledAt            *time.Time
	Stage                  CancellationStage
	RefundAmount           kernel.Money
	RestaurantCompensation kernel.Money
	RefundStatus           RefundStatus
	RefundID               string
	RefundAttempts         int
	LastRefundError        string
	RefundInitiatedAt      *time.Time
}

// RefundOutcome is what the refund policy decided for a cancelled order.
type RefundOutcome struct {
	Stage                  CancellationStage
	RefundAmount           kernel.Money
	RestaurantCompensation kernel.Money
	ReverseAdmin           bool
	CancelPartnerEarning   bool
}

// OrderSettlement is the escrow record of one paid order. It is a separate
// aggregate from Order, linked by order id.
type OrderSettlement struct {
	id            kernel.UUID
	orderID       kernel.UUID
	orderNumber   string
	restaurantID  kernel.UUID
	paymentMethod order.PaymentMethod
	paymentID     string

	userPayment UserPayment
	split       Split

	escrowStatus     EscrowStatus
	settlementStatus Status
	cancellation     CancellationDetails

	createdAt time.Time
	version   int

	isConstructed bool
}

// NewOrderSettlement opens a settlement with escrow held and every leg
// pending.
func NewOrderSettlement(
	id kernel.UUID,
	o *order.Order,
	split Split,
	createdAt time.Time,
) (*OrderSettlement, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	split.Restaurant.Status = EarningPending
	split.Partner.Status = EarningPending
	split.Admin.Status = EarningPending

	return &OrderSettlement{
		id:               id,
		orderID:          o.ID(),
		orderNumber:      o.Number(),
		restaurantID:     o.Restaurant().ID(),
		paymentMethod:    o.Payment().Method(),
		paymentID:        o.Payment().PaymentID(),
		userPayment:      UserPaymentFromPricing(o.Pricing()),
		split:            split,
		escrowStatus:     EscrowHeld,
		settlementStatus: StatusPending,
		createdAt:        createdAt,
		isConstructed:    true,
	}, nil
}

// Snapshot is the persisted state of a settlement.
type Snapshot struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	OrderNumber      string
	RestaurantID     kernel.UUID
	PaymentMethod    order.PaymentMethod
	PaymentID        string
	UserPayment      UserPayment
	Split            Split
	EscrowStatus     EscrowStatus
	SettlementStatus Status
	Cancellation     CancellationDetails
	CreatedAt        time.Time
	Version          int
}

func RestoreOrderSettlement(s Snapshot) (*OrderSettlement, error) {
	var errList []error
	if err := s.ID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := s.OrderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order id", err))
	}
	if strings.TrimSpace(s.OrderNumber) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("order number"))
	}
	if err := s.PaymentMethod.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &OrderSettlement{
		id:               s.ID,
		orderID:          s.OrderID,
		orderNumber:      s.OrderNumber,
		restaurantID:     s.RestaurantID,
		paymentMethod:    s.PaymentMethod,
		paymentID:        s.PaymentID,
		userPayment:      s.UserPayment,
		split:            s.Split,
		escrowStatus:     s.EscrowStatus,
		settlementStatus: s.SettlementStatus,
		cancellation:     s.Cancellation,
		createdAt:        s.CreatedAt,
		version:          s.Version,
		isConstructed:    true,
	}, nil
}

func (s *OrderSettlement) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrOrderSettlementIsNotConstructed
	}
	return nil
}

func (s *OrderSettlement) ID() kernel.UUID                    { return s.id }
func (s *OrderSettlement) OrderID() kernel.UUID               { return s.orderID }
func (s *OrderSettlement) OrderNumber() string                { return s.orderNumber }
func (s *OrderSettlement) RestaurantID() kernel.UUID          { return s.restaurantID }
func (s *OrderSettlement) PaymentMethod() order.PaymentMethod { return s.paymentMethod }
func (s *OrderSettlement) PaymentID() string                  { return s.paymentID }
func (s *OrderSettlement) UserPayment() UserPayment           { return s.userPayment }
func (s *OrderSettlement) Split() Split                       { return s.split }
func (s *OrderSettlement) EscrowStatus() EscrowStatus         { return s.escrowStatus }
func (s *OrderSettlement) SettlementStatus() Status           { return s.settlementStatus }
func (s *OrderSettlement) Cancellation() CancellationDetails  { return s.cancellation }
func (s *OrderSettlement) CreatedAt() time.Time               { return s.createdAt }
func (s *OrderSettlement) Version() int                       { return s.version }
func (s *OrderSettlement) IsCancelled() bool                  { return s.cancellation.Cancelled }
func (s *OrderSettlement) AdvanceVersion()                    { s.version++ }

// RecordCancellation books the refund policy outcome. It is idempotent: a
// settlement that already carries a cancellation is left untouched and
// false is returned.
func (s *OrderSettlement) RecordCancellation(outcome RefundOutcome, at time.Time) (bool, error) {
	if s.cancellation.Cancelled {
		return false, nil
	}
	if outcome.RefundAmount.IsNegative() || outcome.RestaurantCompensation.IsNegative() {
		return false, errs.NewValueIsInvalidErrorWithCause("refund outcome",
			fmt.Errorf("refund %s and compensation %s must not be negative",
				outcome.RefundAmount, outcome.RestaurantCompensation))
	}

	stamp := at
	refundStatus := RefundPending
	if s.paymentMethod != order.PaymentOnline || outcome.RefundAmount.IsZero() {
		refundStatus = RefundNotApplicable
	}

	s.cancellation = CancellationDetails{
		Cancelled:              true,
		CancelledAt:            &stamp,
		Stage:                  outcome.Stage,
		RefundAmount:           outcome.RefundAmount,
		RestaurantCompensation: outcome.RestaurantCompensation,
		RefundStatus:           refundStatus,
	}

	if refundStatus == RefundPending {
		s.escrowStatus = EscrowRefunded
	} else {
		s.escrowStatus = EscrowReleased
	}
	s.settlementStatus = StatusCancelled

	if outcome.RestaurantCompensation.IsPositive() {
		s.split.Restaurant.Status = EarningCompensated
	} else {
		s.split.Restaurant.Status = EarningCancelled
	}
	if outcome.CancelPartnerEarning {
		s.split.Partner.Status = EarningCancelled
	}
	if outcome.ReverseAdmin {
		s.split.Admin.Status = EarningReversed
	}

	return true, nil
}

// BeginRefund moves the refund to initiated before the gateway is called and
// stamps when it did, so a refund stuck in initiated can be found later.
func (s *OrderSettlement) BeginRefund(at time.Time) error {
	if !s.cancellation.Cancelled || s.cancellation.RefundStatus == RefundNotApplicable {
		return ErrRefundNotApplicable
	}
	switch s.cancellation.RefundStatus {
	case RefundPending, RefundFailed:
		stamp := at
		s.cancellation.RefundStatus = RefundInitiated
		s.cancellation.RefundAttempts++
		s.cancellation.RefundInitiatedAt = &stamp
		return nil
	default:
		return errs.NewInvalidTransitionError(string(s.cancellation.RefundStatus), string(RefundInitiated))
	}
}

// CompleteRefund records the gateway refund id.
func (s *OrderSettlement) CompleteRefund(refundID string) error {
	if s.cancellation.RefundStatus != RefundInitiated {
		return errs.NewInvalidTransitionError(string(s.cancellation.RefundStatus), string(RefundProcessed))
	}
	s.cancellation.RefundStatus = RefundProcessed
	s.cancellation.RefundID = refundID
	s.cancellation.LastRefundError = ""
	return nil
}

// FailRefund records a gateway failure; a later BeginRefund may retry.
func (s *OrderSettlement) FailRefund(reason string) error {
	if s.cancellation.RefundStatus != RefundInitiated {
		return errs.NewInvalidTransitionError(string(s.cancellation.RefundStatus), string(RefundFailed))
	}
	s.cancellation.RefundStatus = RefundFailed
	s.cancellation.LastRefundError = reason
	return nil
}
