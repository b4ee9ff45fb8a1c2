// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories for the aggregates and the external
// collaborators the core calls but does not own.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The Order row is the unit of optimistic concurrency.
type OrderRepository interface {
	// Add persists a new order. The order number must be unique.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The write is conditional
	// on the version the aggregate was loaded with; a concurrent change
	// results in errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its internal id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// ClaimForPartner persists the partner assignment carried by the
	// aggregate with a single conditional write keyed on the stored order
	// having no partner and not being terminal. It returns false, without
	// error, when another writer claimed the order first.
	ClaimForPartner(ctx context.Context, aggregate *order.Order) (bool, error)

	// UpdateETA overwrites the ETA columns only. ETA is best effort and does
	// not bump the order version.
	UpdateETA(ctx context.Context, id kernel.UUID, eta order.ETA) error
}
