// Package ports defines the contracts between the core and its adapters:
// the order store, the courier directory, the unit of work, the notification
// sink and the authenticator.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CourierRepository is the courier directory.
type CourierRepository interface {
	// Add registers a new courier.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists a changed courier. Returns errs.ErrObjectNotFound for unknown ids.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get returns one courier or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// List returns all couriers in directory order (creation time, then id).
	List(ctx context.Context) ([]*courier.Courier, error)

	// GetAllAvailable returns couriers with Available status in directory order.
	// Auto-assign picks the first one.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
