package services

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// ErrNoCourierAvailable is returned when auto-assign finds no Available courier.
var ErrNoCourierAvailable = errors.New("no courier available")

// CourierSelector picks the courier for an auto-assign.
//
// Business rules:
//   - Only couriers with Available status are eligible
//   - The first eligible courier in directory order wins; there is no load
//     balancing and no distance ranking
//   - The chosen courier's availability is left untouched
//
// Example usage:
//
//	selected, err := services.NewCourierSelector().Assign(o, couriers, admin, time.Now())
//	if errors.Is(err, services.ErrNoCourierAvailable) {
//	    // nobody is on shift
//	}
type CourierSelector struct{}

func NewCourierSelector() CourierSelector {
	return CourierSelector{}
}

// Select returns the first Available courier.
func (s CourierSelector) Select(couriers []*courier.Courier) (*courier.Courier, error) {
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if c.IsAvailable() {
			return c, nil
		}
	}
	return nil, ErrNoCourierAvailable
}

// Assign selects a courier and assigns it to o on behalf of by, who must be
// an admin; couriers take orders through Order.Claim instead.
// The order's transition rules are checked before any courier is selected,
// so a non-Ready order fails with InvalidTransition even when nobody is
// available.
func (s CourierSelector) Assign(
	o *order.Order,
	couriers []*courier.Courier,
	by actor.Actor,
	now time.Time,
) (*courier.Courier, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := o.Status().ValidateTransition(order.OutForDelivery, by.Role()); err != nil {
		return nil, err
	}

	if !by.Is(actor.Admin) {
		return nil, errs.NewForbiddenError(by.Role().String(), "auto-assign order")
	}

	selected, err := s.Select(couriers)
	if err != nil {
		return nil, err
	}

	if err = o.AssignCourier(selected.ID(), by, now); err != nil {
		return nil, err
	}

	return selected, nil
}
