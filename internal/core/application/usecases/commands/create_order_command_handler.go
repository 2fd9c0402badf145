package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// New orders start Pending with no courier. Creation is not a status change,
// so no StatusChanged is emitted.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle places the order and returns it.
// Customers may only order for themselves; admins for anyone. Every other role
// is Forbidden.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := authorizeCreateOrder(cmd.Actor(), cmd.CustomerID()); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerID(), cmd.RestaurantID(), cmd.Items(), time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func authorizeCreateOrder(by actor.Actor, customerID kernel.UUID) error {
	switch by.Role() {
	case actor.Admin:
		return nil
	case actor.Customer:
		if by.ID().IsEqual(customerID) {
			return nil
		}
		return errs.NewForbiddenErrorWithCause(by.Role().String(), "create order",
			errors.New("customers order for themselves only"))
	default:
		return errs.NewForbiddenError(by.Role().String(), "create order")
	}
}
