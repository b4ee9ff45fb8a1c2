package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderResult is what the customer needs to complete checkout.
// ChargeID is empty for cash on delivery.
type CreateOrderResult struct {
	OrderID     kernel.UUID
	OrderNumber string
	Pricing     order.Pricing
	Savings     kernel.Money
	ChargeID    string
}

// CreateOrderCommandHandler prices the cart, creates the gateway charge for
// online payments and persists the order in pending.
//
// Cash on delivery orders have no verification step, so their settlement is
// opened right after the order is committed.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	pricing    services.PricingCalculator
	payments   ports.PaymentGateway
	opener     *SettlementOpener
	publisher  ports.EventPublisher
	currency   string
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	pricing services.PricingCalculator,
	payments ports.PaymentGateway,
	opener *SettlementOpener,
	publisher ports.EventPublisher,
	currency string,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		payments:   payments,
		opener:     opener,
		publisher:  publisher,
		currency:   currency,
		logger:     logger.With("component", "create_order"),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (CreateOrderResult, error) {
	if err := command.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	quote, err := h.pricing.Calculate(services.Cart{
		Items:                 command.Items(),
		FreeDeliveryThreshold: command.FreeDeliveryThreshold(),
		Coupon:                command.Coupon(),
		Mode:                  command.Mode(),
	})
	if err != nil {
		return CreateOrderResult{}, err
	}

	o, err := order.NewOrder(order.Draft{
		ID:         kernel.NewUUID(),
		Number:     order.NewOrderNumber(),
		UserID:     command.UserID(),
		Restaurant: command.Restaurant(),
		Items:      command.Items(),
		Address:    command.Address(),
		Pricing:    quote.Pricing,
		Mode:       command.Mode(),
		Method:     command.Method(),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return CreateOrderResult{}, err
	}

	if o.Payment().IsOnline() {
		chargeID, chargeErr := h.payments.CreateCharge(ctx, quote.Total.MinorUnits(), h.currency, o.Number())
		if chargeErr != nil {
			return CreateOrderResult{}, errs.NewGatewayError("create charge", chargeErr)
		}
		if err = o.AttachCharge(chargeID); err != nil {
			return CreateOrderResult{}, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return CreateOrderResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	if !o.Payment().IsOnline() {
		if _, _, openErr := h.opener.Open(ctx, o); openErr != nil {
			h.logger.ErrorContext(ctx, "settlement was not opened for cash order",
				"order_number", o.Number(), "error", openErr)
		}
	}
	publishCommitted(ctx, h.publisher, uow)

	return CreateOrderResult{
		OrderID:     o.ID(),
		OrderNumber: o.Number(),
		Pricing:     o.Pricing(),
		Savings:     quote.Savings,
		ChargeID:    o.Payment().ChargeID(),
	}, nil
}
