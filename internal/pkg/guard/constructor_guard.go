// Package guard provides ConstructorGuard, a marker embedded in value objects
// and aggregates so that zero values can be told apart from instances built
// by their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is true only when produced by NewConstructorGuard. The zero
// value reports the owning object as not constructed.
//
//	type Coupon struct {
//	    code  string
//	    guard guard.ConstructorGuard
//	}
//
//	func (c Coupon) Validate() error {
//	    return c.guard.Validate(ErrCouponIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the owning object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
