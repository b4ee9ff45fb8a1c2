package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrSignatureMismatch is the cause reported when the gateway rejects the
// payment signature.
var ErrSignatureMismatch = errors.New("payment signature does not match")

// VerifyPaymentResult reports whether this call paid the order.
type VerifyPaymentResult struct {
	AlreadyPaid  bool
	SettlementID string
}

// VerifyPaymentCommandHandler verifies an online payment and opens the
// settlement.
//
// Ordering:
//   - the order is marked paid and committed
//   - the settlement is opened in its own transaction
//   - only then are the order events published, so the restaurant is never
//     notified of an order without a settlement
//
// A rejected or failed verification marks the payment failed and returns a
// GatewayError; the customer may retry. Verifying a paid order does not call
// the gateway again, it only makes sure the settlement exists. When that retry
// is the one that opens the settlement, the earlier attempt never published,
// so PaymentVerified is raised again from the stored order.
type VerifyPaymentCommandHandler struct {
	uowFactory UoWFactory
	payments   ports.PaymentGateway
	opener     *SettlementOpener
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewVerifyPaymentCommandHandler(
	uowFactory UoWFactory,
	payments ports.PaymentGateway,
	opener *SettlementOpener,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{
		uowFactory: uowFactory,
		payments:   payments,
		opener:     opener,
		publisher:  publisher,
		logger:     logger.With("component", "verify_payment"),
	}
}

func (h VerifyPaymentCommandHandler) Handle(ctx context.Context, command VerifyPaymentCommand) (VerifyPaymentResult, error) {
	if err := command.Validate(); err != nil {
		return VerifyPaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, command.OrderID())
	if err != nil {
		return VerifyPaymentResult{}, err
	}

	if o.Payment().Status() == order.PaymentPaid {
		if err = uow.Commit(ctx); err != nil {
			return VerifyPaymentResult{}, err
		}
		s, created, openErr := h.opener.Open(ctx, o)
		if openErr != nil {
			return VerifyPaymentResult{AlreadyPaid: true}, openErr
		}
		if created {
			h.republishVerified(ctx, o)
		}
		return VerifyPaymentResult{AlreadyPaid: true, SettlementID: s.ID().String()}, nil
	}

	verified, gwErr := h.payments.VerifyCharge(ctx, o.Payment().ChargeID(), command.PaymentID(), command.Signature())
	if gwErr != nil || !verified {
		if gwErr == nil {
			gwErr = ErrSignatureMismatch
		}
		if err = o.MarkPaymentFailed(); err != nil {
			return VerifyPaymentResult{}, err
		}
		if err = repo.Update(ctx, o); err != nil {
			return VerifyPaymentResult{}, err
		}
		if err = uow.Commit(ctx); err != nil {
			return VerifyPaymentResult{}, err
		}
		h.logger.WarnContext(ctx, "payment verification failed",
			"order_number", o.Number(), "error", gwErr)
		return VerifyPaymentResult{}, errs.NewGatewayError("verify charge", gwErr)
	}

	if _, err = o.MarkPaymentPaid(command.PaymentID(), time.Now().UTC()); err != nil {
		return VerifyPaymentResult{}, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return VerifyPaymentResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return VerifyPaymentResult{}, err
	}

	s, _, err := h.opener.Open(ctx, o)
	if err != nil {
		return VerifyPaymentResult{}, err
	}

	publishCommitted(ctx, h.publisher, uow)
	return VerifyPaymentResult{SettlementID: s.ID().String()}, nil
}

func (h VerifyPaymentCommandHandler) republishVerified(ctx context.Context, o *order.Order) {
	verified, err := o.PaymentVerifiedEvent(time.Now().UTC())
	if err != nil {
		h.logger.ErrorContext(ctx, "payment verified event not rebuilt", "order_number", o.Number(), "error", err)
		return
	}
	if h.publisher == nil {
		return
	}
	h.logger.InfoContext(ctx, "publishing payment verified after delayed settlement", "order_number", o.Number())
	h.publisher.Publish(ctx, verified)
}
