package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// ApplyTransitionCommandHandler performs status changes that need no courier
// selection: prepare, ready, deliver and cancel.
//
// Example:
//
//	handler := NewApplyTransitionCommandHandler(uowFactory, notifier)
//	cmd, _ := NewApplyTransitionCommand(orderID, order.Cancelled, customer)
//
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrForbidden):
//	    // the customer does not own the order or it was already accepted
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // the order is already terminal
//	case errors.Is(err, errs.ErrConflict):
//	    // someone else changed the order first; nothing was written
//	}
type ApplyTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

func NewApplyTransitionCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle loads the order, checks the transition for the actor, persists it
// with a conditional update and notifies the StatusChanged event before
// returning the updated order.
//
// Retrying a transition that already happened is not a no-op: the second
// call fails with InvalidTransition.
func (h ApplyTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyTransitionCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory.Create(), h.notifier, cmd.OrderID(), func(o *order.Order) error {
		return o.Transition(cmd.Target(), cmd.Actor(), time.Now())
	})
}
