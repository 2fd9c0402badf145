package order

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// StatusChanged is recorded by the aggregate on every accepted status change.
// Command handlers publish it after the change is committed.
type StatusChanged struct {
	OrderID    kernel.UUID
	Status     Status
	CourierID  *kernel.UUID
	OccurredAt time.Time
}
