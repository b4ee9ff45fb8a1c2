package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	PartnerRepository() PartnerRepository
	ZoneRepository() ZoneRepository
	SettlementRepository() SettlementRepository

	// DomainEvents drains the events raised by every aggregate saved through
	// this unit of work. Call it after Commit.
	DomainEvents() []event.DomainEvent
}
