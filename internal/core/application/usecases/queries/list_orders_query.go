package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders, optionally only those in one status.
//
// Example:
//
//	ready := order.Ready
//	query, _ := NewListOrdersQuery(courier, &ready)
//	orders, err := handler.Handle(ctx, query)
//	// orders a courier could claim right now
type ListOrdersQuery struct {
	by     actor.Actor
	status *order.Status

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(by actor.Actor, status *order.Status) (ListOrdersQuery, error) {
	if err := by.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}

	if status != nil {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{
		by:     by,
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() actor.Actor {
	return q.by
}

// Status is nil when the query matches every status.
func (q ListOrdersQuery) Status() *order.Status {
	return q.status
}
