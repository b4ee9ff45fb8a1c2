package cmd

import (
	"log/slog"
	"time"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/eta"
	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/adapters/out/payment"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/commissionrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/core/application/eventhandlers"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot builds the object graph once at startup.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	bus      *eventbus.Bus
	payments ports.PaymentGateway
	ledger   ports.WalletLedger

	pricing    services.PricingCalculator
	settlement services.SettlementCalculator
	dispatcher services.OrderDispatcher
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	notifier ports.NotificationGateway,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	pricing, err := services.NewPricingCalculator(cfg.Pricing)
	if err != nil {
		return nil, err
	}
	settlement, err := services.NewSettlementCalculator(cfg.Settlement)
	if err != nil {
		return nil, err
	}
	dispatcher, err := services.NewOrderDispatcher(cfg.DispatchMaxRadiusKm)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		bus:        eventbus.NewBus(logger),
		payments:   payment.NewHTTPGateway(cfg.PaymentGatewayURL, cfg.PaymentKeyID, cfg.PaymentKeySecret),
		ledger:     ledgerrepo.NewGormWalletLedger(gormDB),
		pricing:    pricing,
		settlement: settlement,
		dispatcher: dispatcher,
	}

	c.bus.Subscribe("notifications", eventhandlers.NewNotificationHandler(notifier, logger))
	c.bus.Subscribe("eta", eventhandlers.NewETAHandler(
		c.orderUoWFactory(),
		eta.NewHaversineEstimator(cfg.AveragePartnerSpeedKmh),
		time.Now,
		logger,
	))

	return c, nil
}

// Bus is the in-process event publisher; main waits on it at shutdown.
func (c *CompositionRoot) Bus() *eventbus.Bus {
	return c.bus
}

// Handlers wires every use case exposed over HTTP.
func (c *CompositionRoot) Handlers() http.Handlers {
	assign := c.CreateAssignPartnerCommandHandler()
	return http.Handlers{
		CreateOrder:               c.CreateCreateOrderCommandHandler(),
		VerifyPayment:             c.CreateVerifyPaymentCommandHandler(),
		AcceptOrder:               commands.NewAcceptOrderCommandHandler(c.orderUoWFactory(), assign, c.bus, c.logger),
		UpdateOrderStatus:         commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), assign, c.bus, c.logger),
		CancelOrder:               c.CreateCancelOrderCommandHandler(),
		AssignPartner:             assign,
		ReleasePartner:            commands.NewReleasePartnerCommandHandler(c.orderUoWFactory(), assign, c.logger),
		ExecuteRefund:             c.CreateExecuteRefundCommandHandler(),
		RegisterPartner:           commands.NewRegisterPartnerCommandHandler(c.partnerUoWFactory()),
		UpdatePartnerAvailability: commands.NewUpdatePartnerAvailabilityCommandHandler(c.partnerUoWFactory()),
		ConfigureZone:             commands.NewConfigureZoneCommandHandler(c.orderUoWFactory()),
		GetOrder:                  queries.NewGetOrderQueryHandler(c.gormDB),
		GetUnassignedOrders:       queries.NewGetUnassignedOrdersQueryHandler(c.gormDB),
	}
}

// JobManager wires the redispatch and refund retry jobs.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewRedispatchJob(
			queries.NewGetUnassignedOrdersQueryHandler(c.gormDB),
			c.CreateAssignPartnerCommandHandler(),
			c.cfg.RedispatchSchedule,
			c.logger,
		),
		jobs.NewRefundRetryJob(
			queries.NewGetFailedRefundsQueryHandler(c.gormDB),
			queries.NewGetStuckRefundsQueryHandler(c.gormDB),
			c.CreateExecuteRefundCommandHandler(),
			c.cfg.RefundRetrySchedule,
			jobs.DefaultRefundMaxAttempts,
			jobs.DefaultStuckRefundAfter,
			c.logger,
		),
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		c.pricing,
		c.payments,
		c.settlementOpener(),
		c.bus,
		c.cfg.Currency,
		c.logger,
	)
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() commands.VerifyPaymentCommandHandler {
	return commands.NewVerifyPaymentCommandHandler(c.orderUoWFactory(), c.payments, c.settlementOpener(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateAssignPartnerCommandHandler() commands.AssignPartnerCommandHandler {
	return commands.NewAssignPartnerCommandHandler(c.orderUoWFactory(), c.dispatcher, c.bus, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	refunds := commands.NewComputeRefundCommandHandler(c.orderUoWFactory(), services.NewRefundPolicy(), c.ledger, c.logger)
	return commands.NewCancelOrderCommandHandler(
		c.orderUoWFactory(),
		refunds,
		c.CreateExecuteRefundCommandHandler(),
		c.bus,
		c.logger,
	)
}

func (c *CompositionRoot) CreateExecuteRefundCommandHandler() commands.ExecuteRefundCommandHandler {
	return commands.NewExecuteRefundCommandHandler(c.orderUoWFactory(), c.payments, c.ledger, c.logger)
}

func (c *CompositionRoot) settlementOpener() *commands.SettlementOpener {
	return commands.NewSettlementOpener(
		c.orderUoWFactory(),
		commissionrepo.NewGormCommissionRuleProvider(c.gormDB),
		c.settlement,
		c.ledger,
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) partnerUoWFactory() commands.PartnerUoWFactory {
	return FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.CreateGorm()
	})
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
