package courier

import (
	"errors"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when creating a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is a delivery courier as seen by the courier directory.
//
// Example usage:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "Alice", time.Now())
//	if err != nil {
//	    return err
//	}
//	_ = c.SetAvailability(courier.Available)
type Courier struct {
	id           kernel.UUID
	name         string
	availability Availability
	createdAt    time.Time
	guard        guard.ConstructorGuard
}

// NewCourier registers a courier. New couriers are Offline.
func NewCourier(id kernel.UUID, name string, now time.Time) (*Courier, error) {
	return RestoreCourier(id, name, Offline, now)
}

// RestoreCourier rebuilds a courier from storage.
func RestoreCourier(id kernel.UUID, name string, availability Availability, createdAt time.Time) (*Courier, error) {
	c := &Courier{
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.SetAvailability(availability),
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Availability() Availability {
	return c.availability
}

// CreatedAt orders couriers in the directory.
func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

// IsAvailable reports whether auto-assign may pick this courier.
func (c *Courier) IsAvailable() bool {
	return c.availability == Available
}

// SetAvailability changes the courier's working state.
func (c *Courier) SetAvailability(a Availability) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.availability = a
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
