package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderFilter narrows List. A nil Status matches every order.
type OrderFilter struct {
	Status *order.Status
}

// OrderRepository is the order store.
type OrderRepository interface {
	// Add persists a newly placed order with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a mutated order as a single conditional write: the
	// stored row must still have the aggregate's PersistedStatus and
	// PersistedVersion. When it does not, nothing is written and an
	// errs.ErrConflict is returned; an unknown id yields errs.ErrObjectNotFound.
	//
	// This is what makes concurrent claims resolve to a single winner.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order with its items or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns orders matching filter, oldest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
