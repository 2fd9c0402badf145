package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrSetCourierAvailabilityCommandIsNotConstructed = errors.New(
	"SetCourierAvailabilityCommand must be created via NewSetCourierAvailabilityCommand constructor",
)

// SetCourierAvailabilityCommand changes whether a courier is on shift.
type SetCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	by           actor.Actor
	courierID    kernel.UUID
	availability courier.Availability

	guard guard.ConstructorGuard
}

func NewSetCourierAvailabilityCommand(
	by actor.Actor,
	courierID kernel.UUID,
	availability courier.Availability,
) (SetCourierAvailabilityCommand, error) {
	cmd := SetCourierAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(by),
		cmd.setCourierID(courierID),
		cmd.setAvailability(availability),
	); err != nil {
		return SetCourierAvailabilityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierAvailabilityCommandIsNotConstructed)
}

func (c SetCourierAvailabilityCommand) Actor() actor.Actor {
	return c.by
}

func (c SetCourierAvailabilityCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c SetCourierAvailabilityCommand) Availability() courier.Availability {
	return c.availability
}

func (c *SetCourierAvailabilityCommand) setActor(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}

	c.by = by
	return nil
}

func (c *SetCourierAvailabilityCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *SetCourierAvailabilityCommand) setAvailability(a courier.Availability) error {
	if err := a.Validate(); err != nil {
		return err
	}

	c.availability = a
	return nil
}
