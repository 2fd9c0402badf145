// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the API rather than domain aggregates.
package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its items and courier.
//
// Example:
//
//	query, err := NewGetOrderQuery(customer, orderID)
//	if err != nil {
//	    return err
//	}
//
//	res, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrForbidden) {
//	    // not the customer's order
//	}
type GetOrderQuery struct {
	by      actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(by actor.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(by.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		by:      by,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() actor.Actor {
	return q.by
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one order line. Price is in minor currency units.
type OrderItemResponse struct {
	MenuItemID kernel.UUID
	Quantity   int
	Price      int64
}

// OrderCourierResponse is the courier carrying the order. Name is empty when
// the courier is not in the directory.
type OrderCourierResponse struct {
	ID   kernel.UUID
	Name string
}

// GetOrderQueryResponse is the full read model of an order.
type GetOrderQueryResponse struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID
	Status       order.Status
	Items        []OrderItemResponse
	Total        int64
	Courier      *OrderCourierResponse
	PickedUpAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewGetOrderQueryResponse builds the read model from an aggregate and its
// courier's name, if known.
func NewGetOrderQueryResponse(o *order.Order, courierName string) GetOrderQueryResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemResponse{
			MenuItemID: item.MenuItemID(),
			Quantity:   item.Quantity(),
			Price:      item.Price(),
		})
	}

	var c *OrderCourierResponse
	if id := o.Courier(); id != nil {
		c = &OrderCourierResponse{ID: *id, Name: courierName}
	}

	return GetOrderQueryResponse{
		ID:           o.ID(),
		CustomerID:   o.CustomerID(),
		RestaurantID: o.RestaurantID(),
		Status:       o.Status(),
		Items:        items,
		Total:        o.Total(),
		Courier:      c,
		PickedUpAt:   o.PickedUpAt(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
}
