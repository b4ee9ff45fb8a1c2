package services

import (
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"
)

// DefaultMaxRadiusKm is the dispatch radius used when none is configured.
const DefaultMaxRadiusKm = 50.0

// Match is the partner picked for an order and its distance to the restaurant.
type Match struct {
	Partner    *partner.DeliveryPartner
	DistanceKm float64
}

// OrderDispatcher is a domain service that picks the nearest eligible
// delivery partner for an order.
//
// Eligibility, applied in order:
//   - the partner is online, approved or active and has reported a position
//   - when the restaurant has a zone, the partner belongs to it (zone id
//     first, polygon for untagged partners)
//   - the haversine distance to the restaurant is within the max radius
//
// The nearest candidate wins; equal distances are broken by partner id. An
// empty result is a normal outcome, not an error.
//
// Example usage:
//
//	dispatcher, _ := NewOrderDispatcher(50)
//	match, found, err := dispatcher.Dispatch(o, z, partners, time.Now())
//	if err != nil {
//	    return err
//	}
//	if !found {
//	    // order stays unassigned and is retried later
//	}
type OrderDispatcher struct {
	maxRadiusKm float64
}

// NewOrderDispatcher creates a dispatcher limited to maxRadiusKm around the
// restaurant.
func NewOrderDispatcher(maxRadiusKm float64) (OrderDispatcher, error) {
	if math.IsNaN(maxRadiusKm) || maxRadiusKm <= 0 {
		return OrderDispatcher{}, errs.NewValueIsOutOfRangeError("max radius km", maxRadiusKm, 0, math.Inf(1))
	}
	return OrderDispatcher{maxRadiusKm: maxRadiusKm}, nil
}

func (d OrderDispatcher) MaxRadiusKm() float64 {
	return d.maxRadiusKm
}

// Dispatch selects the best partner and assigns it to the order in memory.
// The caller is responsible for persisting the assignment with a
// conditional write. z may be nil when the restaurant has no zone.
//
// Returns:
//   - Match: the assigned partner and its distance
//   - bool: false when no partner qualified; the order is left untouched
//   - error: the order cannot take a partner, or a partner is malformed
func (d OrderDispatcher) Dispatch(
	o *order.Order,
	z *zone.Zone,
	partners []*partner.DeliveryPartner,
	at time.Time,
) (Match, bool, error) {
	if err := o.Validate(); err != nil {
		return Match{}, false, err
	}
	if o.Mode() == order.ModePickup {
		return Match{}, false, order.ErrPickupNotDispatched
	}
	if err := o.Status().ValidateAssign(); err != nil {
		return Match{}, false, err
	}
	if o.HasPartner() {
		return Match{}, false, order.ErrPartnerAlreadyAssigned
	}

	match, found, err := d.FindBest(o.Restaurant().Location(), z, partners)
	if err != nil || !found {
		return Match{}, false, err
	}

	if err := o.AssignPartner(match.Partner.ID(), match.DistanceKm, order.AssignedBySystem, at); err != nil {
		return Match{}, false, err
	}
	return match, true, nil
}

// FindBest returns the nearest eligible partner around restaurant.
func (d OrderDispatcher) FindBest(
	restaurant kernel.Location,
	z *zone.Zone,
	partners []*partner.DeliveryPartner,
) (Match, bool, error) {
	if err := restaurant.Validate(); err != nil {
		return Match{}, false, err
	}

	var (
		best  *partner.DeliveryPartner
		bestD = math.MaxFloat64
	)

	for _, p := range partners {
		if err := p.Validate(); err != nil {
			return Match{}, false, err
		}
		if !p.IsEligible() {
			continue
		}
		if !d.inZone(z, p) {
			continue
		}

		dist, err := p.Location().DistanceKm(restaurant)
		if err != nil {
			return Match{}, false, err
		}
		if dist > d.maxRadiusKm {
			continue
		}

		if best == nil || dist < bestD || (dist == bestD && p.ID().Compare(best.ID()) < 0) {
			best = p
			bestD = dist
		}
	}

	if best == nil {
		return Match{}, false, nil
	}
	return Match{Partner: best, DistanceKm: bestD}, true, nil
}

// inZone never fails the dispatch: a partner whose zone membership cannot be
// decided is skipped.
func (d OrderDispatcher) inZone(z *zone.Zone, p *partner.DeliveryPartner) bool {
	if z == nil {
		return true
	}
	ok, err := z.Admits(p.ZoneID(), p.Location())
	return err == nil && ok
}
