// Package zone models a restaurant's service area used to restrict which
// delivery partners dispatch may consider.
package zone

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")

// Zone maps to one restaurant's service area. The boundary polygon is
// optional; zones without one match partners by zone id only.
type Zone struct {
	id           kernel.UUID
	name         string
	restaurantID kernel.UUID
	boundary     *kernel.Polygon

	isConstructed bool
}

func NewZone(id kernel.UUID, name string, restaurantID kernel.UUID, boundary *kernel.Polygon) (*Zone, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("zone name"))
	}
	if err := restaurantID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("zone restaurant id", err))
	}
	if boundary != nil {
		if err := boundary.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	z := &Zone{id: id, name: name, restaurantID: restaurantID, isConstructed: true}
	if boundary != nil {
		b := *boundary
		z.boundary = &b
	}
	return z, nil
}

func (z *Zone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

func (z *Zone) ID() kernel.UUID           { return z.id }
func (z *Zone) Name() string              { return z.name }
func (z *Zone) RestaurantID() kernel.UUID { return z.restaurantID }

// Boundary returns the polygon and whether one is configured.
func (z *Zone) Boundary() (kernel.Polygon, bool) {
	if z.boundary == nil {
		return kernel.Polygon{}, false
	}
	return *z.boundary, true
}

// Admits decides whether a partner standing at location and tagged with
// zoneID belongs to this zone. A zone id on the partner takes precedence; the
// polygon is consulted only for untagged partners. Untagged partners are
// admitted when the zone has no polygon.
func (z *Zone) Admits(zoneID *kernel.UUID, location kernel.Location) (bool, error) {
	if zoneID != nil {
		return zoneID.IsEqual(z.id), nil
	}
	if z.boundary == nil {
		return true, nil
	}
	return z.boundary.Contains(location)
}
