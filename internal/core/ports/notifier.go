package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// Notifier receives every committed StatusChanged event.
//
// Delivery is best effort. A returned error never fails the operation that
// emitted the event; the order store stays the source of truth.
type Notifier interface {
	Notify(ctx context.Context, event order.StatusChanged) error
}
