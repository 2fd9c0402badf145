package order

import (
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Preparing ──> Ready ──> OutForDelivery ──> Delivered
//	   │            │           │             │
//	   └────────────┴───────────┴─────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown (0) catches uninitialized values.
	Unknown Status = iota

	// Pending is the initial status of a placed order.
	Pending

	// Preparing means the restaurant accepted the order.
	Preparing

	// Ready means the food waits for a courier.
	Ready

	// OutForDelivery means a courier was assigned or claimed the order.
	// Orders in this status always have a courier.
	OutForDelivery

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Preparing:      "Preparing",
		Ready:          "Ready",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// getTransitions returns the lifecycle table: for every source status, the
// reachable statuses and the roles allowed to take that edge.
func getTransitions() map[Status]map[Status][]actor.Role {
	//nolint:exhaustive // terminal statuses have no outgoing edges
	return map[Status]map[Status][]actor.Role{
		Pending: {
			Preparing: {actor.Restaurant},
			Cancelled: {actor.Customer, actor.Restaurant, actor.Admin},
		},
		Preparing: {
			Ready:     {actor.Restaurant},
			Cancelled: {actor.Restaurant, actor.Admin},
		},
		Ready: {
			OutForDelivery: {actor.Courier, actor.Admin},
			Cancelled:      {actor.Admin},
		},
		OutForDelivery: {
			Delivered: {actor.Courier},
			Cancelled: {actor.Admin},
		},
	}
}

// ParseStatus accepts status names case-insensitively, with or without
// underscores ("Ready", "out_for_delivery", "OUTFORDELIVERY").
func ParseStatus(s string) (Status, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	for status, name := range getStatusStrings() {
		if status != Unknown && strings.EqualFold(name, normalized) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values, e.g. from persistence.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no edge leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the edge s -> target exists for any role.
func (s Status) CanTransitionTo(target Status) bool {
	_, ok := getTransitions()[s][target]
	return ok
}

// RolesFor returns every role that may move an order into target from some status.
func RolesFor(target Status) []actor.Role {
	seen := make(map[actor.Role]struct{})
	roles := make([]actor.Role, 0)
	// Iterate sources in lifecycle order so the result is deterministic.
	for from := Pending; from <= Cancelled; from++ {
		for _, role := range getTransitions()[from][target] {
			if _, ok := seen[role]; !ok {
				seen[role] = struct{}{}
				roles = append(roles, role)
			}
		}
	}
	return roles
}

// ValidateTransition checks a request to move from s to target on behalf of role.
//
// The checks run in this order:
//   - a customer asks for a target customers can never request: Forbidden,
//     whatever the current status
//   - s is terminal: InvalidTransition, whoever asks
//   - role can never request target: Forbidden
//   - edge s -> target does not exist (skips): InvalidTransition
//   - edge exists but role is not on it: Forbidden
func (s Status) ValidateTransition(target Status, role actor.Role) error {
	if err := validateRequest(s, target.String(), role, RolesFor(target)); err != nil {
		return err
	}

	allowed, ok := getTransitions()[s][target]
	if !ok {
		return errs.NewInvalidTransitionError(s.String(), target.String())
	}

	if !containsRole(allowed, role) {
		return errs.NewForbiddenError(role.String(), fmt.Sprintf("move order from %s to %s", s, target))
	}

	return nil
}

// validateRequest applies the checks shared by every order action: customers
// outside roles are refused first, then terminal orders, then any other role
// outside roles.
func validateRequest(s Status, action string, role actor.Role, roles []actor.Role) error {
	permitted := containsRole(roles, role)
	if role == actor.Customer && !permitted {
		return errs.NewForbiddenError(role.String(), "move order to "+action)
	}

	if s.IsTerminal() {
		return errs.NewInvalidTransitionError(s.String(), action)
	}

	if !permitted {
		return errs.NewForbiddenError(role.String(), "move order to "+action)
	}

	return nil
}

// ValidateCanHaveCourier checks status/courier consistency:
// Pending, Preparing and Ready orders have no courier; OutForDelivery and
// Delivered orders have one. Cancelled orders may have either.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	switch {
	case courier && (s == Pending || s == Preparing || s == Ready):
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	case !courier && (s == OutForDelivery || s == Delivered):
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}
	return nil
}

func containsRole(roles []actor.Role, role actor.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
