package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads the tracking view of a single order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is what customers, restaurants and support see for an
// order. Optional sections are nil until the order reaches them.
type GetOrderQueryResponse struct {
	ID           kernel.UUID       `json:"id"`
	Number       string            `json:"number"`
	UserID       kernel.UUID       `json:"user_id"`
	Status       string            `json:"status"`
	Mode         string            `json:"mode"`
	Restaurant   RestaurantView    `json:"restaurant"`
	Address      string            `json:"address"`
	Items        []OrderItemView   `json:"items"`
	Pricing      PricingView       `json:"pricing"`
	Payment      PaymentView       `json:"payment"`
	Timeline     []TimelineEntry   `json:"timeline"`
	Assignment   *AssignmentView   `json:"assignment,omitempty"`
	ETA          *ETAView          `json:"eta,omitempty"`
	Cancellation *CancellationView `json:"cancellation,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Version      int               `json:"version"`
}

type RestaurantView struct {
	ID   kernel.UUID `json:"id"`
	Name string      `json:"name"`
}

type OrderItemView struct {
	MenuItemID kernel.UUID  `json:"menu_item_id"`
	Name       string       `json:"name"`
	Price      kernel.Money `json:"price"`
	Quantity   int          `json:"quantity"`
}

type PricingView struct {
	Subtotal    kernel.Money `json:"subtotal"`
	Discount    kernel.Money `json:"discount"`
	DeliveryFee kernel.Money `json:"delivery_fee"`
	PlatformFee kernel.Money `json:"platform_fee"`
	Tax         kernel.Money `json:"tax"`
	Total       kernel.Money `json:"total"`
}

type PaymentView struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

// TimelineEntry is one reached lifecycle step. Entries are in lifecycle order.
type TimelineEntry struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type AssignmentView struct {
	PartnerID  kernel.UUID `json:"partner_id"`
	DistanceKm float64     `json:"distance_km"`
	AssignedAt time.Time   `json:"assigned_at"`
	AssignedBy string      `json:"assigned_by"`
}

type ETAView struct {
	MinMinutes  int       `json:"min_minutes"`
	MaxMinutes  int       `json:"max_minutes"`
	LastUpdated time.Time `json:"last_updated"`
}

// CancellationView carries the refund state when a settlement exists.
type CancellationView struct {
	Reason       string        `json:"reason"`
	By           string        `json:"by"`
	At           time.Time     `json:"at"`
	RefundStatus string        `json:"refund_status,omitempty"`
	RefundAmount *kernel.Money `json:"refund_amount,omitempty"`
}
