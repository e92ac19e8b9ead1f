package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Role is the kind of principal acting on the engine.
type Role string

const (
	RoleDriver     Role = "driver"
	RoleDispatcher Role = "dispatcher"
	RoleClient     Role = "client"
	RoleSystem     Role = "system"
)

// ErrActorIsNotConstructed is returned when a zero-value Actor is used.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// systemActorID identifies scheduled jobs in status logs.
var systemActorID = UUID{id: [16]byte{15: 1}}

func (r Role) Validate() error {
	switch r {
	case RoleDriver, RoleDispatcher, RoleClient, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the verified principal behind a request, as supplied by the identity
// provider in front of the engine.
type Actor struct { //nolint:recvcheck //using for validation
	id    UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

// SystemActor is used by background jobs.
func SystemActor() Actor {
	return Actor{id: systemActorID, role: RoleSystem, guard: guard.NewConstructorGuard()}
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) Is(role Role) bool {
	return a.role == role
}

// IsDriver reports whether the actor is the given driver.
func (a Actor) IsDriver(driverID UUID) bool {
	return a.role == RoleDriver && a.id.IsEqual(driverID)
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
