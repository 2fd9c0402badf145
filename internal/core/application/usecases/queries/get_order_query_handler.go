package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// GetOrderQueryHandler reads an order for an actor allowed to see it.
type GetOrderQueryHandler struct {
	orders   ports.OrderRepository
	couriers ports.CourierRepository
}

func NewGetOrderQueryHandler(orders ports.OrderRepository, couriers ports.CourierRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		orders:   orders,
		couriers: couriers,
	}
}

// Handle returns errs.ErrObjectNotFound for unknown orders and
// errs.ErrForbidden when the actor may not see the order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if !o.IsVisibleTo(query.Actor()) {
		return GetOrderQueryResponse{}, errs.NewForbiddenError(query.Actor().Role().String(), "read order")
	}

	var courierName string
	if id := o.Courier(); id != nil {
		c, courierErr := h.couriers.Get(ctx, *id)
		switch {
		case courierErr == nil:
			courierName = c.Name()
		case !errors.Is(courierErr, errs.ErrObjectNotFound):
			return GetOrderQueryResponse{}, courierErr
		}
	}

	return NewGetOrderQueryResponse(o, courierName), nil
}
