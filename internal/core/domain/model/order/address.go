package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is the delivery destination: free text for the rider plus the
// coordinates used for distance and ETA calculations.
type Address struct {
	text     string
	location kernel.Location
	guard    guard.ConstructorGuard
}

// NewAddress requires both a non-blank text and real coordinates; the (0, 0)
// placeholder is rejected.
func NewAddress(text string, location kernel.Location) (Address, error) {
	var errList []error
	if strings.TrimSpace(text) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("address text"))
	}
	if location.IsDefault() {
		errList = append(errList, errs.NewValueIsRequiredError("address coordinates"))
	}
	if err := errors.Join(errList...); err != nil {
		return Address{}, err
	}

	return Address{text: text, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Text() string              { return a.text }
func (a Address) Location() kernel.Location { return a.location }
