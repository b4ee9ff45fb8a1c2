package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

var restaurantLocation, _ = kernel.NewLocation(12.9716, 77.5946)

func mustLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return l
}

func mustItem(t *testing.T, price string, qty int) order.Item {
	t.Helper()
	p, err := kernel.ParseMoney(price)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Paneer Tikka", p, qty)
	require.NoError(t, err)
	return item
}

// newOrder builds a pending order priced 200 + 25 delivery + 5 platform +
// 10 tax = 240. Online orders come back already paid.
func newOrder(t *testing.T, mode order.DeliveryMode, method order.PaymentMethod) *order.Order {
	t.Helper()

	restaurant, err := order.NewRestaurantSnapshot(kernel.NewUUID(), "Tandoor Tales", restaurantLocation)
	require.NoError(t, err)
	address, err := order.NewAddress("12 MG Road", mustLocation(t, 12.9750, 77.6060))
	require.NoError(t, err)

	deliveryFee := kernel.MoneyFromInt(25)
	total := kernel.MoneyFromInt(240)
	if mode == order.ModePickup {
		deliveryFee = kernel.ZeroMoney()
		total = kernel.MoneyFromInt(215)
	}

	o, err := order.NewOrder(order.Draft{
		ID:         kernel.NewUUID(),
		Number:     order.NewOrderNumber(),
		UserID:     kernel.NewUUID(),
		Restaurant: restaurant,
		Items:      []order.Item{mustItem(t, "100", 2)},
		Address:    address,
		Pricing: order.Pricing{
			Subtotal:    kernel.MoneyFromInt(200),
			Discount:    kernel.ZeroMoney(),
			DeliveryFee: deliveryFee,
			PlatformFee: kernel.MoneyFromInt(5),
			Tax:         kernel.MoneyFromInt(10),
			Total:       total,
		},
		Mode:      mode,
		Method:    method,
		CreatedAt: t0,
	})
	require.NoError(t, err)

	if method == order.PaymentOnline {
		_, err = o.MarkPaymentPaid("pay_1", t0)
		require.NoError(t, err)
	}
	return o
}

func acceptedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newOrder(t, order.ModeDelivery, order.PaymentOnline)
	require.NoError(t, o.Accept(t0))
	return o
}

func newPartner(t *testing.T, id kernel.UUID, loc kernel.Location, online bool, zoneID *kernel.UUID) *partner.DeliveryPartner {
	t.Helper()
	p, err := partner.RestoreDeliveryPartner(id, "Ravi", partner.StatusActive, online, loc, t0, zoneID)
	require.NoError(t, err)
	return p
}
