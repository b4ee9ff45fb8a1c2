package eventhandlers_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, channel string, payload any) error {
	args := m.Called(ctx, channel, payload)
	return args.Error(0)
}

type MockEstimator struct{ mock.Mock }

func (m *MockEstimator) Estimate(ctx context.Context, route ports.Route) (int, int, error) {
	args := m.Called(ctx, route)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ClaimForPartner(ctx context.Context, o *order.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateETA(ctx context.Context, id kernel.UUID, eta order.ETA) error {
	return m.Called(ctx, id, eta).Error(0)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *partner.DeliveryPartner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, p *partner.DeliveryPartner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.DeliveryPartner), args.Error(1)
}

func (m *MockPartnerRepository) GetAllOnline(ctx context.Context) ([]*partner.DeliveryPartner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.DeliveryPartner), args.Error(1)
}

type MockUoW struct {
	mock.Mock
	orders   *MockOrderRepository
	partners *MockPartnerRepository
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository           { return m.orders }
func (m *MockUoW) PartnerRepository() ports.PartnerRepository       { return m.partners }
func (m *MockUoW) ZoneRepository() ports.ZoneRepository             { return nil }
func (m *MockUoW) SettlementRepository() ports.SettlementRepository { return nil }
func (m *MockUoW) DomainEvents() []event.DomainEvent                { return nil }

type MockUoWFactory struct {
	uow *MockUoW
}

func (f *MockUoWFactory) Create() commands.UoW { return f.uow }

func newMockUoW() *MockUoW {
	uow := &MockUoW{orders: new(MockOrderRepository), partners: new(MockPartnerRepository)}
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	return uow
}

func newOrder(t *testing.T) *order.Order {
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
		Method:    order.PaymentCOD,
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
