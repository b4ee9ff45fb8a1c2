// Package partner models the delivery partner as seen by dispatch: identity,
// account status, online flag, last reported position and optional zone.
package partner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrDeliveryPartnerIsNotConstructed = errors.New(
	"DeliveryPartner must be created via NewDeliveryPartner constructor")

// Status is the account status of a delivery partner.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Validate() error {
	switch s {
	case StatusApproved, StatusActive, StatusSuspended:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("partner status", fmt.Errorf("%q is not supported", string(s)))
	}
}

// CanWork reports whether the account may receive orders.
func (s Status) CanWork() bool {
	return s == StatusApproved || s == StatusActive
}

// DeliveryPartner is mutated only by the partner's own availability updates.
// Dispatch reads it but never writes it: assigning an order changes the order,
// not the partner.
type DeliveryPartner struct {
	id         kernel.UUID
	name       string
	status     Status
	isOnline   bool
	location   kernel.Location
	lastUpdate time.Time
	zoneID     *kernel.UUID

	isConstructed bool
}

// NewDeliveryPartner registers an approved, offline partner without a
// known position.
func NewDeliveryPartner(id kernel.UUID, name string, zoneID *kernel.UUID) (*DeliveryPartner, error) {
	p := &DeliveryPartner{
		status:        StatusApproved,
		isConstructed: true,
	}

	if err := errors.Join(p.setID(id), p.setName(name), p.setZoneID(zoneID)); err != nil {
		return nil, err
	}

	origin, err := kernel.NewLocation(0, 0)
	if err != nil {
		return nil, err
	}
	p.location = origin

	return p, nil
}

// RestoreDeliveryPartner rebuilds a partner from storage.
func RestoreDeliveryPartner(
	id kernel.UUID,
	name string,
	status Status,
	isOnline bool,
	location kernel.Location,
	lastUpdate time.Time,
	zoneID *kernel.UUID,
) (*DeliveryPartner, error) {
	p := &DeliveryPartner{
		status:        status,
		isOnline:      isOnline,
		location:      location,
		lastUpdate:    lastUpdate,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setZoneID(zoneID),
		status.Validate(),
		location.Validate(),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *DeliveryPartner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrDeliveryPartnerIsNotConstructed
	}
	return nil
}

func (p *DeliveryPartner) ID() kernel.UUID           { return p.id }
func (p *DeliveryPartner) Name() string              { return p.name }
func (p *DeliveryPartner) Status() Status            { return p.status }
func (p *DeliveryPartner) IsOnline() bool            { return p.isOnline }
func (p *DeliveryPartner) Location() kernel.Location { return p.location }
func (p *DeliveryPartner) LastUpdate() time.Time     { return p.lastUpdate }

// ZoneID returns a copy of the zone id, or nil when the partner roams freely.
func (p *DeliveryPartner) ZoneID() *kernel.UUID {
	if p.zoneID == nil {
		return nil
	}
	id := *p.zoneID
	return &id
}

// IsEligible is the first dispatch filter: online, allowed to work and with a
// real reported position.
func (p *DeliveryPartner) IsEligible() bool {
	return p.isOnline && p.status.CanWork() && !p.location.IsDefault()
}

// UpdateAvailability is the partner heartbeat. A nil location keeps the last
// known position. Suspended partners may only go offline.
func (p *DeliveryPartner) UpdateAvailability(isOnline bool, location *kernel.Location, at time.Time) error {
	if isOnline && !p.status.CanWork() {
		return errs.NewValueIsInvalidErrorWithCause("availability",
			fmt.Errorf("partner is %s and cannot go online", p.status))
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
		p.location = *location
	}

	p.isOnline = isOnline
	p.lastUpdate = at
	return nil
}

func (p *DeliveryPartner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *DeliveryPartner) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("partner name")
	}
	p.name = name
	return nil
}

func (p *DeliveryPartner) setZoneID(zoneID *kernel.UUID) error {
	if zoneID == nil {
		p.zoneID = nil
		return nil
	}
	if err := zoneID.Validate(); err != nil {
		return err
	}
	id := *zoneID
	p.zoneID = &id
	return nil
}
