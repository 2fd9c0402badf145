package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery is the pull path for clients that missed a push.
type GetOrderStatusQuery struct {
	by      actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderStatusQuery(by actor.Actor, orderID kernel.UUID) (GetOrderStatusQuery, error) {
	if err := errors.Join(by.Validate(), orderID.Validate()); err != nil {
		return GetOrderStatusQuery{}, err
	}

	return GetOrderStatusQuery{
		by:      by,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) Actor() actor.Actor {
	return q.by
}

func (q GetOrderStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

type GetOrderStatusQueryResponse struct {
	OrderID   kernel.UUID
	Status    order.Status
	CourierID *kernel.UUID
	UpdatedAt time.Time
}
