// Package guard holds ConstructorGuard, a marker embedded into commands, queries
// and value objects so that zero values built with a struct literal can be told
// apart from values that went through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller supplies no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard.
//
//	type AssignDriverCommand struct {
//	    trackingID kernel.TrackingID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c AssignDriverCommand) Validate() error {
//	    return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
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
