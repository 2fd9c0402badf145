package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// PickupOrderCommandHandler marks an OutForDelivery order as collected.
// The status does not change, so nobody is notified.
type PickupOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

func NewPickupOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) PickupOrderCommandHandler {
	return PickupOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

func (h PickupOrderCommandHandler) Handle(ctx context.Context, cmd PickupOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory.Create(), h.notifier, cmd.OrderID(), func(o *order.Order) error {
		return o.MarkPickedUp(cmd.Actor(), time.Now())
	})
}
