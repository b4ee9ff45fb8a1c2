// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence and, after commit, publication of the raised domain events.
package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency inside one aggregate boundary;
// orders and settlements are always written in separate transactions.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PartnerRepoFactory provides access to partner repository within a transaction.
	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	ZoneRepoFactory interface {
		ZoneRepository() ports.ZoneRepository
	}

	SettlementRepoFactory interface {
		SettlementRepository() ports.SettlementRepository
	}

	// EventSource drains the domain events of the aggregates saved in a
	// unit of work.
	EventSource interface {
		DomainEvents() []event.DomainEvent
	}

	// UoW is the unit of work used by the order and settlement commands.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   // ... mutate and Update
	//
	//   err = uow.Commit(ctx)
	//   publisher.Publish(ctx, uow.DomainEvents()...)
	UoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		ZoneRepoFactory
		SettlementRepoFactory
		EventSource
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}

	// PartnerUoW manages transactions for partner-only operations.
	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	// PartnerUoWFactory creates new partner unit of work instances.
	PartnerUoWFactory interface {
		Create() PartnerUoW
	}
)

// publishCommitted hands the events of a committed unit of work to the
// publisher. A nil publisher drops them.
func publishCommitted(ctx context.Context, publisher ports.EventPublisher, source EventSource) {
	events := source.DomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	publisher.Publish(ctx, events...)
}
