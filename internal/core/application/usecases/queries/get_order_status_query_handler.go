package queries

import (
	"context"

	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// GetOrderStatusQueryHandler applies the same visibility rules as GetOrderQueryHandler.
type GetOrderStatusQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetOrderStatusQueryHandler(orders ports.OrderRepository) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{orders: orders}
}

func (h GetOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusQuery,
) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	if !o.IsVisibleTo(query.Actor()) {
		return GetOrderStatusQueryResponse{}, errs.NewForbiddenError(query.Actor().Role().String(), "read order status")
	}

	return GetOrderStatusQueryResponse{
		OrderID:   o.ID(),
		Status:    o.Status(),
		CourierID: o.Courier(),
		UpdatedAt: o.UpdatedAt(),
	}, nil
}
