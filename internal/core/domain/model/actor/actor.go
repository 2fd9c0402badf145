// Package actor models the authenticated identity that invokes every
// lifecycle operation. The actor is always passed explicitly; nothing in the
// core reads identity from ambient request state.
package actor

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via New constructor")

// Role is the platform role an actor authenticates with.
type Role int

const (
	UnknownRole Role = iota
	Customer
	Restaurant
	Courier
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		Customer:   "Customer",
		Restaurant: "Restaurant",
		Courier:    "Courier",
		Admin:      "Admin",
	}
}

// ParseRole accepts role names case-insensitively ("courier", "Courier").
func ParseRole(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Actor is the identity and role behind a request.
// For Restaurant actors the id is the id of the restaurant they operate.
type Actor struct {
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

func New(id kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor has the given role.
func (a Actor) Is(role Role) bool {
	return a.role == role
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
