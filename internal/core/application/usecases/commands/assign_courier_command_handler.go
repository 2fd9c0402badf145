package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// AssignCourierCommandHandler orchestrates auto-assignment.
// Reads the available couriers and lets services.CourierSelector pick the
// first one. The chosen courier's availability is left as it is.
//
// Example:
//
//	handler := NewAssignCourierCommandHandler(uowFactory, notifier)
//	cmd, _ := NewAssignCourierCommand(orderID, admin)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrNoCourierAvailable):
//	    log.Println("All couriers are offline or busy")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	default:
//	    log.Printf("Courier %s assigned", o.Courier())
//	}
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	selector   services.CourierSelector
}

func NewAssignCourierCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		selector:   services.NewCourierSelector(),
	}
}

// Handle assigns a courier to the order and returns it in OutForDelivery.
// Returns services.ErrNoCourierAvailable when nobody is Available; the order
// then stays Ready.
func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	return mutateOrder(ctx, uow, h.notifier, cmd.OrderID(), func(o *order.Order) error {
		couriers, err := uow.CourierRepository().GetAllAvailable(ctx)
		if err != nil {
			return err
		}

		_, err = h.selector.Assign(o, couriers, cmd.Actor(), time.Now())
		return err
	})
}
