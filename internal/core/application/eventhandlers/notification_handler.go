// Package eventhandlers consumes committed domain events for side effects
// that must never affect the transactional core: notifications and ETA
// estimation. Handlers return errors for the event bus to log; they are
// never propagated back to the command that raised the event.
package eventhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// Channel keys address one recipient. The notification gateway decides how
// a key maps onto its transport.
func RestaurantChannel(id kernel.UUID) string { return "restaurant." + id.String() }
func UserChannel(id kernel.UUID) string       { return "user." + id.String() }
func PartnerChannel(id kernel.UUID) string    { return "partner." + id.String() }

// Notification is the payload sent to every channel.
type Notification struct {
	Event   string            `json:"event"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Data    event.DomainEvent `json:"data"`
}

type delivery struct {
	channel      string
	notification Notification
}

// NotificationHandler fans domain events out to the restaurant, the customer
// and the delivery partner. A failed send does not stop the remaining ones.
type NotificationHandler struct {
	notifier ports.NotificationGateway
	logger   *slog.Logger
}

func NewNotificationHandler(notifier ports.NotificationGateway, logger *slog.Logger) NotificationHandler {
	return NotificationHandler{
		notifier: notifier,
		logger:   logger.With("component", "notification_handler"),
	}
}

func (h NotificationHandler) Handle(ctx context.Context, e event.DomainEvent) error {
	deliveries := h.route(e)
	if len(deliveries) == 0 {
		return nil
	}

	var errList []error
	for _, d := range deliveries {
		if err := h.notifier.Notify(ctx, d.channel, d.notification); err != nil {
			errList = append(errList, fmt.Errorf("notify %s: %w", d.channel, err))
			continue
		}
		h.logger.DebugContext(ctx, "notification sent",
			"event", e.Type(),
			"channel", d.channel,
			"order_number", e.Order().OrderNumber,
		)
	}
	return errors.Join(errList...)
}

func (h NotificationHandler) route(e event.DomainEvent) []delivery {
	meta := e.Order()
	notify := func(channel, title, message string) delivery {
		return delivery{
			channel:      channel,
			notification: Notification{Event: e.Type(), Title: title, Message: message, Data: e},
		}
	}

	switch ev := e.(type) {
	case event.OrderPlaced:
		// Online orders reach the kitchen once payment is verified.
		if ev.Method != string(order.PaymentCOD) {
			return nil
		}
		return []delivery{
			notify(RestaurantChannel(meta.RestaurantID), "New order",
				fmt.Sprintf("Order %s (cash on delivery) is waiting for you", meta.OrderNumber)),
		}

	case event.PaymentVerified:
		return []delivery{
			notify(RestaurantChannel(meta.RestaurantID), "New order",
				fmt.Sprintf("Order %s has been paid", meta.OrderNumber)),
		}

	case event.OrderAssigned:
		return []delivery{
			notify(PartnerChannel(ev.DeliveryPartnerID), "New delivery",
				fmt.Sprintf("Pick up order %s from %s (%.1f km away)", meta.OrderNumber, ev.RestaurantName, ev.DistanceKm)),
			notify(UserChannel(meta.UserID), "Delivery partner assigned",
				fmt.Sprintf("A delivery partner is on the way for order %s", meta.OrderNumber)),
		}

	case event.OrderCancelled:
		message := fmt.Sprintf("Order %s was cancelled by %s", meta.OrderNumber, ev.CancelledBy)
		if ev.Reason != "" {
			message += ": " + ev.Reason
		}
		deliveries := []delivery{
			notify(UserChannel(meta.UserID), "Order cancelled", message),
			notify(RestaurantChannel(meta.RestaurantID), "Order cancelled", message),
		}
		if ev.DeliveryPartnerID != nil {
			deliveries = append(deliveries, notify(PartnerChannel(*ev.DeliveryPartnerID), "Delivery cancelled", message))
		}
		return deliveries

	case event.OrderStatusChanged:
		// Cancellation has its own notification.
		if ev.NewStatus == order.Cancelled.String() {
			return nil
		}
		return []delivery{
			notify(UserChannel(meta.UserID), "Order update",
				fmt.Sprintf("Order %s is now %s", meta.OrderNumber, ev.NewStatus)),
		}
	}

	return nil
}
