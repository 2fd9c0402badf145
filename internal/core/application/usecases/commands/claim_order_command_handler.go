package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// ClaimOrderCommandHandler lets couriers race for Ready orders.
//
// Every claimer reads the order as Ready, but only the first conditional
// update succeeds. Claimers that read the order after it was taken get a
// Conflict wrapping order.ErrAlreadyClaimed; claimers that lose the write race
// get the repository's Conflict.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle assigns the calling courier and returns the order in OutForDelivery.
// The courier's availability is not changed.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory.Create(), h.notifier, cmd.OrderID(), func(o *order.Order) error {
		return o.Claim(cmd.Actor(), time.Now())
	})
}
