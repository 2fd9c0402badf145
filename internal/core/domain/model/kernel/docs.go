// Package kernel provides the shared identifier primitive of the domain model.
//
// UUID wraps github.com/google/uuid so that every aggregate id, foreign
// reference (customer, restaurant, menu item) and actor id is validated the
// same way: the nil UUID is never a valid identifier.
package kernel
