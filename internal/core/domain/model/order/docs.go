// Package order implements the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root, created in pending by NewOrder and rebuilt
//     from storage by RestoreOrder
//   - Status: forward-only transitions plus cancellation from any
//     non-terminal state, with named guards (Accept, MarkReady, PickUp,
//     Deliver, Cancel)
//   - Tracking: append-only checkpoints, each stamped exactly once
//   - Item, Address, RestaurantSnapshot, Pricing and Payment: immutable
//     snapshots taken at checkout
//
// Failed guards return errs.InvalidTransitionError and never mutate the
// order. Successful mutations record domain events from package event.
package order
