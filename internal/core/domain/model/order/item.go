package order

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one order line. Price is a snapshot taken when the order is placed,
// in minor currency units. Items are immutable and owned by their Order.
type Item struct {
	menuItemID kernel.UUID
	quantity   int
	price      int64
	guard      guard.ConstructorGuard
}

// NewItem validates a line: quantity must be positive and price non-negative.
func NewItem(menuItemID kernel.UUID, quantity int, price int64) (Item, error) {
	var errList []error
	if err := menuItemID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("menuItemId", err))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if price < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%d is negative", price)))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		menuItemID: menuItemID,
		quantity:   quantity,
		price:      price,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) Price() int64 {
	return i.price
}

// Subtotal is price times quantity.
func (i Item) Subtotal() int64 {
	return i.price * int64(i.quantity)
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}
