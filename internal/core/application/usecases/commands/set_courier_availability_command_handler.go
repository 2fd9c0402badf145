package commands

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/pkg/errs"
)

// SetCourierAvailabilityCommandHandler updates a courier's availability.
// A courier may change its own availability; admins may change anyone's.
type SetCourierAvailabilityCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewSetCourierAvailabilityCommandHandler(uowFactory CourierUoWFactory) SetCourierAvailabilityCommandHandler {
	return SetCourierAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h SetCourierAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd SetCourierAvailabilityCommand,
) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	by := cmd.Actor()
	switch {
	case by.Is(actor.Admin):
	case by.Is(actor.Courier) && by.ID().IsEqual(cmd.CourierID()):
	default:
		return nil, errs.NewForbiddenErrorWithCause(by.Role().String(), "set courier availability",
			errors.New("only the courier itself or an admin"))
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	if err = c.SetAvailability(cmd.Availability()); err != nil {
		return nil, err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
