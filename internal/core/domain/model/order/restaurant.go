package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRestaurantSnapshotIsNotConstructed = errors.New(
	"RestaurantSnapshot must be created via NewRestaurantSnapshot constructor")

// RestaurantSnapshot is the restaurant as it looked when the order was placed.
// Renaming or moving the restaurant later does not change historical orders.
type RestaurantSnapshot struct {
	id       kernel.UUID
	name     string
	location kernel.Location
	guard    guard.ConstructorGuard
}

func NewRestaurantSnapshot(id kernel.UUID, name string, location kernel.Location) (RestaurantSnapshot, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("restaurant name"))
	}
	if location.IsDefault() {
		errList = append(errList, errs.NewValueIsRequiredError("restaurant coordinates"))
	}
	if err := errors.Join(errList...); err != nil {
		return RestaurantSnapshot{}, err
	}

	return RestaurantSnapshot{id: id, name: name, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (r RestaurantSnapshot) Validate() error {
	return r.guard.Validate(ErrRestaurantSnapshotIsNotConstructed)
}

func (r RestaurantSnapshot) ID() kernel.UUID           { return r.id }
func (r RestaurantSnapshot) Name() string              { return r.name }
func (r RestaurantSnapshot) Location() kernel.Location { return r.location }
