package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCOD    PaymentMethod = "cod"
)

func (m PaymentMethod) Validate() error {
	if m != PaymentOnline && m != PaymentCOD {
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
	return nil
}

// PaymentStatus tracks the gateway charge for online payments. Cash on
// delivery orders stay pending until the rider collects the cash.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not supported", string(s)))
	}
}

// Payment holds the method, the status and the gateway references.
type Payment struct {
	method    PaymentMethod
	status    PaymentStatus
	chargeID  string
	paymentID string
}

// RestorePayment rebuilds a Payment from storage.
func RestorePayment(method PaymentMethod, status PaymentStatus, chargeID, paymentID string) Payment {
	return Payment{method: method, status: status, chargeID: chargeID, paymentID: paymentID}
}

func (p Payment) Method() PaymentMethod { return p.method }
func (p Payment) Status() PaymentStatus { return p.status }

// ChargeID is the gateway order/charge reference created at checkout.
func (p Payment) ChargeID() string { return p.chargeID }

// PaymentID is the gateway payment reference, known after verification.
func (p Payment) PaymentID() string { return p.paymentID }

func (p Payment) IsOnline() bool { return p.method == PaymentOnline }

func (p Payment) Validate() error {
	if err := p.method.Validate(); err != nil {
		return err
	}
	return p.status.Validate()
}
