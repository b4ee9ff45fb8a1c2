// Package errs provides the error taxonomy of the fulfillment engine.
//
// Every error type follows the same shape: a sentinel variable, a struct
// carrying details, constructors with and without a cause, Error() and an
// Unwrap() returning the sentinel so callers classify with errors.Is.
//
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: bad input, no state change
//   - ObjectNotFoundError: missing order, partner, zone or settlement
//   - InvalidTransitionError: order status guard violation, no state change
//   - VersionIsInvalidError: optimistic-concurrency conflict on an aggregate
//   - GatewayError: payment gateway failure, retryable
//   - ReconciliationWarning: settlement legs that do not add up; logged, never returned
package errs
