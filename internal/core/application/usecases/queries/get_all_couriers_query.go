package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetAllCouriersQueryIsNotConstructed = errors.New(
	"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
)

// GetAllCouriersQuery retrieves the courier directory.
//
// Example:
//
//	query, _ := NewGetAllCouriersQuery(admin)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//
//	for _, c := range couriers {
//	    fmt.Printf("Courier %s is %s\n", c.Name, c.Availability)
//	}
type GetAllCouriersQuery struct {
	by actor.Actor

	guard guard.ConstructorGuard
}

func NewGetAllCouriersQuery(by actor.Actor) (GetAllCouriersQuery, error) {
	if err := by.Validate(); err != nil {
		return GetAllCouriersQuery{}, err
	}
	return GetAllCouriersQuery{by: by, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllCouriersQueryIsNotConstructed if validation fails.
func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

func (q GetAllCouriersQuery) Actor() actor.Actor {
	return q.by
}

// GetAllCouriersQueryResponse represents courier information in the read model.
type GetAllCouriersQueryResponse struct {
	ID           kernel.UUID
	Name         string
	Availability courier.Availability
	CreatedAt    time.Time
}
