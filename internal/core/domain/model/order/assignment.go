package order

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

const (
	AssignedBySystem = "system"
	AssignedByAdmin  = "admin"
)

// AssignmentInfo describes how a delivery partner was matched.
type AssignmentInfo struct {
	DistanceKm float64
	AssignedAt time.Time
	AssignedBy string
}

// ETA is an estimated delivery window in minutes from LastUpdated.
type ETA struct {
	MinMinutes  int
	MaxMinutes  int
	LastUpdated time.Time
}

func (e ETA) Validate() error {
	if e.MinMinutes < 0 || e.MaxMinutes < e.MinMinutes {
		return errs.NewValueIsInvalidErrorWithCause("eta",
			fmt.Errorf("window [%d, %d] is not a valid range", e.MinMinutes, e.MaxMinutes))
	}
	return nil
}

// Actor identifies who cancelled an order.
type Actor string

const (
	ActorUser       Actor = "user"
	ActorRestaurant Actor = "restaurant"
	ActorAdmin      Actor = "admin"
	ActorSystem     Actor = "system"
)

func (a Actor) Validate() error {
	switch a {
	case ActorUser, ActorRestaurant, ActorAdmin, ActorSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%q is not a known actor", string(a)))
	}
}
