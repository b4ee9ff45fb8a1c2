// Package event defines the domain events raised by the order aggregate.
//
// Events are collected from aggregates after a unit of work commits and are
// handed to in-process handlers for best-effort side effects (notifications,
// ETA recalculation). They are also the payloads published to the
// notification gateway, so every field carries a JSON tag.
package event

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderAssigned      = "order.assigned"
	EventOrderCancelled     = "order.cancelled"
	EventPaymentVerified    = "order.payment_verified"
)

// DomainEvent is implemented by every event in this package.
type DomainEvent interface {
	Type() string
	At() time.Time
	Order() OrderMetadata
}

// OrderMetadata is embedded in all order events.
type OrderMetadata struct {
	EventType    string      `json:"event_type"`
	OccurredAt   time.Time   `json:"occurred_at"`
	OrderID      kernel.UUID `json:"order_id"`
	OrderNumber  string      `json:"order_number"`
	RestaurantID kernel.UUID `json:"restaurant_id"`
	UserID       kernel.UUID `json:"user_id"`
}

func (m OrderMetadata) Type() string         { return m.EventType }
func (m OrderMetadata) At() time.Time        { return m.OccurredAt }
func (m OrderMetadata) Order() OrderMetadata { return m }

// OrderPlaced is raised when a checkout creates an order.
type OrderPlaced struct {
	OrderMetadata
	Total     kernel.Money `json:"total"`
	Method    string       `json:"payment_method"`
	Mode      string       `json:"delivery_mode"`
	ItemCount int          `json:"item_count"`
}

// OrderStatusChanged is raised for every lifecycle transition, including
// cancellation.
type OrderStatusChanged struct {
	OrderMetadata
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// OrderAssigned is raised when a delivery partner claims an order.
type OrderAssigned struct {
	OrderMetadata
	DeliveryPartnerID kernel.UUID `json:"delivery_partner_id"`
	DistanceKm        float64     `json:"distance_km"`
	AssignedBy        string      `json:"assigned_by"`
	RestaurantName    string      `json:"restaurant_name"`
}

// OrderCancelled is raised once, when an order enters the cancelled state.
type OrderCancelled struct {
	OrderMetadata
	PreviousStatus    string       `json:"previous_status"`
	Reason            string       `json:"reason,omitempty"`
	CancelledBy       string       `json:"cancelled_by"`
	DeliveryPartnerID *kernel.UUID `json:"delivery_partner_id,omitempty"`
}

// PaymentVerified is raised when an online payment is confirmed by the gateway.
type PaymentVerified struct {
	OrderMetadata
	PaymentID string       `json:"payment_id"`
	Amount    kernel.Money `json:"amount"`
	Method    string       `json:"method"`
}
