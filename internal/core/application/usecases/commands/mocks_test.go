package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/model/settlement"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
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
	args := m.Called(ctx, id, eta)
	return args.Error(0)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *partner.DeliveryPartner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, p *partner.DeliveryPartner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
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

type MockZoneRepository struct{ mock.Mock }

func (m *MockZoneRepository) Add(ctx context.Context, z *zone.Zone) error {
	args := m.Called(ctx, z)
	return args.Error(0)
}

func (m *MockZoneRepository) GetByRestaurant(ctx context.Context, restaurantID kernel.UUID) (*zone.Zone, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zone.Zone), args.Error(1)
}

type MockSettlementRepository struct{ mock.Mock }

func (m *MockSettlementRepository) Add(ctx context.Context, s *settlement.OrderSettlement) (bool, error) {
	args := m.Called(ctx, s)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementRepository) Update(ctx context.Context, s *settlement.OrderSettlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*settlement.OrderSettlement, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.OrderSettlement), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	args := m.Called()
	return args.Get(0).(ports.PartnerRepository)
}

func (m *MockUoW) ZoneRepository() ports.ZoneRepository {
	args := m.Called()
	return args.Get(0).(ports.ZoneRepository)
}

func (m *MockUoW) SettlementRepository() ports.SettlementRepository {
	args := m.Called()
	return args.Get(0).(ports.SettlementRepository)
}

func (m *MockUoW) DomainEvents() []event.DomainEvent {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]event.DomainEvent)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockPartnerUoW struct{ mock.Mock }

func (m *MockPartnerUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPartnerUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPartnerUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPartnerUoW) PartnerRepository() ports.PartnerRepository {
	args := m.Called()
	return args.Get(0).(ports.PartnerRepository)
}

type MockPartnerUoWFactory struct{ mock.Mock }

func (m *MockPartnerUoWFactory) Create() commands.PartnerUoW {
	args := m.Called()
	return args.Get(0).(commands.PartnerUoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreateCharge(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) VerifyCharge(ctx context.Context, chargeID, paymentID, signature string) (bool, error) {
	args := m.Called(ctx, chargeID, paymentID, signature)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentGateway) CreateRefund(
	ctx context.Context,
	paymentID string,
	amountMinor int64,
	notes map[string]string,
) (string, error) {
	args := m.Called(ctx, paymentID, amountMinor, notes)
	return args.String(0), args.Error(1)
}

type MockWalletLedger struct{ mock.Mock }

func (m *MockWalletLedger) Credit(ctx context.Context, entry ports.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWalletLedger) Debit(ctx context.Context, entry ports.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockCommissionRuleProvider struct{ mock.Mock }

func (m *MockCommissionRuleProvider) GetActiveRules(
	ctx context.Context,
	restaurantID kernel.UUID,
) ([]settlement.CommissionRule, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.CommissionRule), args.Error(1)
}

func (m *MockCommissionRuleProvider) GetDefaultCommission(
	ctx context.Context,
	restaurantID kernel.UUID,
) (*settlement.Commission, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Commission), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) {
	m.Called(ctx, events)
}

// MockAssigner stands in for the dispatch handler in handlers that trigger
// a dispatch attempt.
type MockAssigner struct{ mock.Mock }

func (m *MockAssigner) Handle(ctx context.Context, cmd commands.AssignPartnerCommand) (commands.AssignmentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignmentResult), args.Error(1)
}

type MockRefundComputer struct{ mock.Mock }

func (m *MockRefundComputer) Handle(
	ctx context.Context,
	cmd commands.ComputeRefundCommand,
) (commands.ComputeRefundResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ComputeRefundResult), args.Error(1)
}

type MockRefundExecutor struct{ mock.Mock }

func (m *MockRefundExecutor) Handle(
	ctx context.Context,
	cmd commands.ExecuteRefundCommand,
) (commands.ExecuteRefundResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ExecuteRefundResult), args.Error(1)
}

// fixture wires one mock unit of work to every repository. Begin, Rollback
// and the repository accessors are always allowed; Commit, DomainEvents and
// repository calls are set per test.
type fixture struct {
	orders      *MockOrderRepository
	partners    *MockPartnerRepository
	zones       *MockZoneRepository
	settlements *MockSettlementRepository
	uow         *MockUoW
	factory     *MockUoWFactory
	payments    *MockPaymentGateway
	ledger      *MockWalletLedger
	rules       *MockCommissionRuleProvider
	publisher   *MockEventPublisher
}

func newFixture() *fixture {
	f := &fixture{
		orders:      new(MockOrderRepository),
		partners:    new(MockPartnerRepository),
		zones:       new(MockZoneRepository),
		settlements: new(MockSettlementRepository),
		uow:         new(MockUoW),
		factory:     new(MockUoWFactory),
		payments:    new(MockPaymentGateway),
		ledger:      new(MockWalletLedger),
		rules:       new(MockCommissionRuleProvider),
		publisher:   new(MockEventPublisher),
	}

	f.factory.On("Create").Return(f.uow).Maybe()
	f.uow.On("Begin", mock.Anything).Return(nil).Maybe()
	f.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.uow.On("PartnerRepository").Return(f.partners).Maybe()
	f.uow.On("ZoneRepository").Return(f.zones).Maybe()
	f.uow.On("SettlementRepository").Return(f.settlements).Maybe()
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.orders.AssertExpectations(t)
	f.partners.AssertExpectations(t)
	f.zones.AssertExpectations(t)
	f.settlements.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	f.rules.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

// opener returns a settlement opener with the default 10% commission and a
// payout of 30.
func (f *fixture) opener(t *testing.T) *commands.SettlementOpener {
	t.Helper()
	calculator, err := services.NewSettlementCalculator(services.DefaultSettlementPolicy())
	require.NoError(t, err)
	return commands.NewSettlementOpener(f.factory, f.rules, calculator, f.ledger, discardLogger())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func mustLocation(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return l
}

// newOrder builds a pending order priced 200 + 25 delivery + 5 platform +
// 10 tax = 240, or 215 for pickup. Creation events are cleared.
func newOrder(t *testing.T, mode order.DeliveryMode, method order.PaymentMethod) *order.Order {
	t.Helper()

	restaurant, err := order.NewRestaurantSnapshot(kernel.NewUUID(), "Tandoor Tales", mustLocation(t, 12.9716, 77.5946))
	require.NoError(t, err)
	address, err := order.NewAddress("12 MG Road", mustLocation(t, 12.9750, 77.6060))
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Paneer Tikka", kernel.MoneyFromInt(100), 2)
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
		Items:      []order.Item{item},
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
	o.ClearDomainEvents()
	return o
}

func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newOrder(t, order.ModeDelivery, order.PaymentOnline)
	require.NoError(t, o.AttachCharge("order_1"))
	_, err := o.MarkPaymentPaid("pay_1", t0)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func acceptedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := paidOrder(t)
	require.NoError(t, o.Accept(t0))
	o.ClearDomainEvents()
	return o
}

// settlementFor opens a settlement for o with the 20/180/30/30 split of a
// 240 order.
func settlementFor(t *testing.T, o *order.Order) *settlement.OrderSettlement {
	t.Helper()
	s, err := settlement.NewOrderSettlement(kernel.NewUUID(), o, settlement.Split{
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
	}, t0)
	require.NoError(t, err)
	return s
}

func newPartner(t *testing.T, loc kernel.Location, zoneID *kernel.UUID) *partner.DeliveryPartner {
	t.Helper()
	p, err := partner.RestoreDeliveryPartner(kernel.NewUUID(), "Ravi", partner.StatusActive, true, loc, t0, zoneID)
	require.NoError(t, err)
	return p
}
