package postgres_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()

	restaurantLoc, err := kernel.NewLocation(12.9716, 77.5946)
	require.NoError(t, err)
	restaurant, err := order.NewRestaurantSnapshot(kernel.NewUUID(), "Tandoor Tales", restaurantLoc)
	require.NoError(t, err)
	addressLoc, err := kernel.NewLocation(12.9750, 77.6060)
	require.NoError(t, err)
	address, err := order.NewAddress("12 MG Road", addressLoc)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Paneer Tikka", kernel.MoneyFromInt(100), 2)
	require.NoError(t, err)

	o, err := order.NewOrder(order.Draft{
		ID:         kernel.NewUUID(),
		Number:     order.NewOrderNumber(),
		UserID:     kernel.NewUUID(),
		Restaurant: restaurant,
		Items:      []order.Item{item},
		Address:    address,
		Pricing: order.Pricing{
			Subtotal:    kernel.MoneyFromInt(200),
			Discount:    kernel.ZeroMoney(),
			DeliveryFee: kernel.MoneyFromInt(25),
			PlatformFee: kernel.MoneyFromInt(5),
			Tax:         kernel.MoneyFromInt(10),
			Total:       kernel.MoneyFromInt(240),
		},
		Mode:      order.ModeDelivery,
		Method:    method,
		CreatedAt: t0,
	})
	require.NoError(t, err)
	return o
}

func newPartner(t *testing.T) *partner.DeliveryPartner {
	t.Helper()
	loc, err := kernel.NewLocation(12.9720, 77.5950)
	require.NoError(t, err)
	p, err := partner.RestoreDeliveryPartner(kernel.NewUUID(), "Ravi", partner.StatusActive, true, loc, t0, nil)
	require.NoError(t, err)
	return p
}
