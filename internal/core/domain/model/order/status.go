package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// Transitions only ever move forward along the sequence
//
//	pending -> confirmed -> preparing -> ready -> out_for_delivery -> delivered
//
// and any non-terminal state may move to cancelled. Delivered and cancelled
// are terminal. The numeric value of each constant follows the sequence, so
// "strictly forward" is a plain integer comparison.
type Status int

const (
	// Unknown is the zero value and is never a valid status.
	Unknown Status = iota

	// Pending is the initial status of every order.
	Pending

	// Confirmed means the restaurant has seen the order.
	Confirmed

	// Preparing means the kitchen has started cooking.
	Preparing

	// Ready means the food is packed and waiting for pickup.
	Ready

	// OutForDelivery means the delivery partner has collected the order.
	OutForDelivery

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal and reachable from every non-terminal status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// ParseStatus converts the persisted/wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and values outside the declared range.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name; unrecognized values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsAssignable reports whether a delivery partner may be attached to an order
// in this status: the restaurant has accepted it and it has not left the
// restaurant yet.
func (s Status) IsAssignable() bool {
	return s == Confirmed || s == Preparing || s == Ready
}

// TransitionTo validates a generic move to next and returns next on success.
// Moving to the current status, or backwards, is rejected.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewInvalidTransitionError(s.String(), next.String())
	}
	if next != Cancelled && next <= s {
		return Unknown, errs.NewInvalidTransitionError(s.String(), next.String())
	}
	return next, nil
}

// Accept is the restaurant's acceptance guard: valid from pending or confirmed,
// always lands in preparing.
func (s Status) Accept() (Status, error) {
	if s != Pending && s != Confirmed {
		return Unknown, errs.NewInvalidActionError("accept", s.String())
	}
	return Preparing, nil
}

// MarkReady is valid only from preparing.
func (s Status) MarkReady() (Status, error) {
	if s != Preparing {
		return Unknown, errs.NewInvalidActionError("mark ready", s.String())
	}
	return Ready, nil
}

// PickUp is valid only from ready.
func (s Status) PickUp() (Status, error) {
	if s != Ready {
		return Unknown, errs.NewInvalidActionError("pick up", s.String())
	}
	return OutForDelivery, nil
}

// Deliver is valid only from out_for_delivery.
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return Unknown, errs.NewInvalidActionError("deliver", s.String())
	}
	return Delivered, nil
}

// Cancel is valid from every non-terminal status.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewInvalidActionError("cancel", s.String())
	}
	return Cancelled, nil
}

// ValidateAssign checks that a partner may be assigned in this status.
func (s Status) ValidateAssign() error {
	if !s.IsAssignable() {
		return errs.NewInvalidActionError("assign a partner to", s.String())
	}
	return nil
}
