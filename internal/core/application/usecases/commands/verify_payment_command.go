package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand confirms an online payment with the gateway
// signature returned to the customer's client.
type VerifyPaymentCommand struct {
	orderID   kernel.UUID
	paymentID string
	signature string

	guard guard.ConstructorGuard
}

func NewVerifyPaymentCommand(orderID kernel.UUID, paymentID, signature string) (VerifyPaymentCommand, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(paymentID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("payment id"))
	}
	if strings.TrimSpace(signature) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("signature"))
	}
	if err := errors.Join(errList...); err != nil {
		return VerifyPaymentCommand{}, err
	}

	return VerifyPaymentCommand{
		orderID:   orderID,
		paymentID: paymentID,
		signature: signature,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}

func (c VerifyPaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c VerifyPaymentCommand) PaymentID() string    { return c.paymentID }
func (c VerifyPaymentCommand) Signature() string    { return c.signature }
