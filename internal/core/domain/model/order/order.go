package order

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrAlreadyClaimed is the cause of the conflict a courier gets when the
	// order already has a courier.
	ErrAlreadyClaimed = errors.New("order already claimed")
)

// Order is the aggregate root of the order lifecycle.
//
// Order follows these invariants:
//   - id, customer and restaurant are set at creation and never change
//   - items are fixed at creation and there is at least one
//   - status only moves along the edges of the Status table
//   - the courier is set exactly once, when the order goes OutForDelivery
//   - every mutation bumps updatedAt and version
//
// The status and version the aggregate was loaded with are kept so that the
// repository can persist it with a conditional update.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	courierID    *kernel.UUID
	status       Status
	items        []Item
	pickedUpAt   *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	version      int

	persistedStatus  Status
	persistedVersion int

	events []StatusChanged
	guard  guard.ConstructorGuard
}

// Snapshot is the flat persisted form of an Order, used by storage adapters.
type Snapshot struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID
	CourierID    *kernel.UUID
	Status       Status
	Items        []Item
	PickedUpAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int
}

// NewOrder places a new order in Pending status with no courier.
//
// Example:
//
//	item, _ := order.NewItem(menuItemID, 2, 1250)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, []order.Item{item}, time.Now())
func NewOrder(id, customerID, restaurantID kernel.UUID, items []Item, now time.Time) (*Order, error) {
	o := &Order{
		status:           Pending,
		createdAt:        now.UTC(),
		updatedAt:        now.UTC(),
		version:          1,
		persistedStatus:  Pending,
		persistedVersion: 1,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customerID),
		o.setRestaurant(restaurantID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an aggregate from storage, re-checking the invariants
// that storage could have broken.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		courierID:        s.CourierID,
		status:           s.Status,
		pickedUpAt:       s.PickedUpAt,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		persistedStatus:  s.Status,
		persistedVersion: s.Version,
		guard:            guard.NewConstructorGuard(),
	}

	var versionErr error
	if s.Version < 1 {
		versionErr = errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", s.Version))
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomer(s.CustomerID),
		o.setRestaurant(s.RestaurantID),
		o.setItems(s.Items),
		s.Status.Validate(),
		s.Status.ValidateCanHaveCourier(s.CourierID != nil),
		versionErr,
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the instance came from NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Courier returns the assigned courier's ID, nil before assignment.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// PickedUpAt is set once the assigned courier confirms pickup.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int {
	return o.version
}

// PersistedStatus is the status the aggregate had when loaded.
func (o *Order) PersistedStatus() Status {
	return o.persistedStatus
}

// PersistedVersion is the version the aggregate had when loaded.
func (o *Order) PersistedVersion() int {
	return o.persistedVersion
}

// Total sums the item subtotals.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}

// Snapshot exports the aggregate state for storage adapters.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:           o.id,
		CustomerID:   o.customerID,
		RestaurantID: o.restaurantID,
		CourierID:    o.courierID,
		Status:       o.status,
		Items:        o.Items(),
		PickedUpAt:   o.pickedUpAt,
		CreatedAt:    o.createdAt,
		UpdatedAt:    o.updatedAt,
		Version:      o.version,
	}
}

// PullEvents returns the recorded StatusChanged events and forgets them, so
// each event is published once.
func (o *Order) PullEvents() []StatusChanged {
	events := o.events
	o.events = nil
	return events
}

// Transition moves the order to target on behalf of by.
//
// Besides the Status table, ownership is enforced: a customer may only act on
// its own order, a restaurant on its own restaurant's orders, and a courier on
// orders assigned to it. OutForDelivery is only reachable through
// AssignCourier or Claim, because it needs a courier.
//
// Returns:
//   - errs.ForbiddenError when the role or the identity is not allowed
//   - errs.InvalidTransitionError when the edge does not exist
func (o *Order) Transition(target Status, by actor.Actor, now time.Time) error {
	if err := by.Validate(); err != nil {
		return err
	}

	if err := o.status.ValidateTransition(target, by.Role()); err != nil {
		return err
	}

	if target == OutForDelivery {
		return errs.NewValueIsInvalidErrorWithCause("status", errors.New("OutForDelivery requires a courier assignment"))
	}

	if err := o.validateOwnership(by, "move order to "+target.String()); err != nil {
		return err
	}

	o.setStatus(target, now)
	return nil
}

// AssignCourier sets the courier and moves a Ready order to OutForDelivery.
// Used by auto-assign (Admin) and, through Claim, by couriers.
func (o *Order) AssignCourier(courierID kernel.UUID, by actor.Actor, now time.Time) error {
	if err := by.Validate(); err != nil {
		return err
	}

	if err := courierID.Validate(); err != nil {
		return err
	}

	if err := o.status.ValidateTransition(OutForDelivery, by.Role()); err != nil {
		return err
	}

	o.courierID = &courierID
	o.setStatus(OutForDelivery, now)
	return nil
}

// Claim lets the calling courier take a Ready order.
//
// Returns:
//   - errs.ForbiddenError if by is a customer, or not a courier on a live order
//   - errs.InvalidTransitionError if the order is terminal or not yet Ready
//   - errs.ConflictError wrapping ErrAlreadyClaimed if a courier already has it
func (o *Order) Claim(by actor.Actor, now time.Time) error {
	if err := by.Validate(); err != nil {
		return err
	}

	if err := validateRequest(o.status, OutForDelivery.String(), by.Role(), []actor.Role{actor.Courier}); err != nil {
		return err
	}

	if o.courierID != nil {
		return errs.NewConflictErrorWithCause("order", o.id.String(), ErrAlreadyClaimed)
	}

	return o.AssignCourier(by.ID(), by, now)
}

// MarkPickedUp records that the assigned courier physically collected the
// order. The status stays OutForDelivery and no StatusChanged is recorded.
// Marking twice fails with InvalidTransition.
func (o *Order) MarkPickedUp(by actor.Actor, now time.Time) error {
	if err := by.Validate(); err != nil {
		return err
	}

	if err := validateRequest(o.status, "PickedUp", by.Role(), []actor.Role{actor.Courier}); err != nil {
		return err
	}

	if o.status != OutForDelivery || o.pickedUpAt != nil {
		return errs.NewInvalidTransitionError(o.status.String(), "PickedUp")
	}

	if err := o.validateOwnership(by, "pick up order"); err != nil {
		return err
	}

	pickedUpAt := now.UTC()
	o.pickedUpAt = &pickedUpAt
	o.touch(now)
	return nil
}

// IsVisibleTo reports whether a may read the order: admins, the owning
// customer and restaurant, the assigned courier, and any courier while the
// order is Ready and unclaimed.
func (o *Order) IsVisibleTo(a actor.Actor) bool {
	switch a.Role() {
	case actor.Admin:
		return true
	case actor.Customer:
		return o.customerID.IsEqual(a.ID())
	case actor.Restaurant:
		return o.restaurantID.IsEqual(a.ID())
	case actor.Courier:
		if o.courierID == nil {
			return o.status == Ready
		}
		return o.courierID.IsEqual(a.ID())
	default:
		return false
	}
}

func (o *Order) validateOwnership(by actor.Actor, action string) error {
	var owns bool
	switch by.Role() {
	case actor.Admin:
		owns = true
	case actor.Customer:
		owns = o.customerID.IsEqual(by.ID())
	case actor.Restaurant:
		owns = o.restaurantID.IsEqual(by.ID())
	case actor.Courier:
		owns = o.courierID != nil && o.courierID.IsEqual(by.ID())
	}

	if !owns {
		return errs.NewForbiddenErrorWithCause(by.Role().String(), action,
			fmt.Errorf("order %s does not belong to %s", o.id, by.ID()))
	}
	return nil
}

func (o *Order) setStatus(target Status, now time.Time) {
	o.status = target
	o.touch(now)
	o.events = append(o.events, StatusChanged{
		OrderID:    o.id,
		Status:     target,
		CourierID:  o.courierID,
		OccurredAt: o.updatedAt,
	})
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
	o.version++
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurant(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantId", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}
