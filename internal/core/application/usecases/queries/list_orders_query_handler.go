package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ListOrdersQueryHandler serves the order board for admins and couriers.
// Admins see every order. Couriers see the orders visible to them: Ready
// orders nobody has taken and their own deliveries.
type ListOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewListOrdersQueryHandler(orders ports.OrderRepository) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

// Handle returns orders oldest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	by := query.Actor()
	if !by.Is(actor.Admin) && !by.Is(actor.Courier) {
		return nil, errs.NewForbiddenError(by.Role().String(), "list orders")
	}

	orders, err := h.orders.List(ctx, ports.OrderFilter{Status: query.Status()})
	if err != nil {
		return nil, err
	}

	res := make([]GetOrderQueryResponse, 0, len(orders))
	for _, o := range orders {
		if !o.IsVisibleTo(by) {
			continue
		}
		res = append(res, NewGetOrderQueryResponse(o, ""))
	}
	return res, nil
}
