package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
)

// PaymentGateway is the external payment processor. All amounts are in
// minor currency units.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	VerifyCharge(ctx context.Context, chargeID, paymentID, signature string) (bool, error)
	CreateRefund(ctx context.Context, paymentID string, amountMinor int64, notes map[string]string) (string, error)
}

// NotificationGateway delivers best-effort notifications. Callers log
// failures and never depend on delivery for correctness.
type NotificationGateway interface {
	Notify(ctx context.Context, channel string, payload any) error
}

// LedgerAccount identifies which wallet a ledger entry belongs to.
type LedgerAccount string

const (
	LedgerRestaurant      LedgerAccount = "restaurant"
	LedgerDeliveryPartner LedgerAccount = "delivery_partner"
	LedgerAdmin           LedgerAccount = "admin"
	LedgerEscrow          LedgerAccount = "escrow"
)

// LedgerEntry is one append-only wallet movement. Amount is always positive;
// the direction is given by the WalletLedger method.
type LedgerEntry struct {
	Account  LedgerAccount
	EntityID kernel.UUID
	Amount   kernel.Money
	Reason   string
	OrderID  kernel.UUID
}

// WalletLedger appends to the per-entity transaction log. The core writes
// to it but never reads balances.
type WalletLedger interface {
	Credit(ctx context.Context, entry LedgerEntry) error
	Debit(ctx context.Context, entry LedgerEntry) error
}

// Route is the path a delivery takes once a partner is assigned.
type Route struct {
	Partner    kernel.Location
	Restaurant kernel.Location
	Customer   kernel.Location
}

// ETAEstimator estimates delivery time in whole minutes.
type ETAEstimator interface {
	Estimate(ctx context.Context, route Route) (minMinutes, maxMinutes int, err error)
}

// EventPublisher hands committed domain events to their consumers. It never
// fails the caller: consumer errors are the publisher's to log.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent)
}

// PlatformAccountID owns the admin and escrow wallets.
var PlatformAccountID = kernel.MustUUIDFromString("00000000-0000-4000-8000-000000000001")
