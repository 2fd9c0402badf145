// Package events fans committed domain events out to the notification sinks.
package events

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// Dispatcher is a ports.Notifier that forwards each event to every sink in
// registration order. A failing sink is logged and skipped, so one slow or
// broken transport never blocks the others or the command that emitted the
// event.
//
// Example:
//
//	dispatcher := events.NewDispatcher(logger, hub, publisher)
//	handler := commands.NewApplyTransitionCommandHandler(uowFactory, dispatcher)
type Dispatcher struct {
	sinks  []ports.Notifier
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger, sinks ...ports.Notifier) *Dispatcher {
	return &Dispatcher{
		sinks:  sinks,
		logger: logger.With("component", "event_dispatcher"),
	}
}

// Notify never returns an error.
func (d *Dispatcher) Notify(ctx context.Context, event order.StatusChanged) error {
	for _, sink := range d.sinks {
		if err := sink.Notify(ctx, event); err != nil {
			d.logger.WarnContext(ctx, "Status change notification failed",
				"order_id", event.OrderID.String(),
				"status", event.Status.String(),
				"error", err,
			)
		}
	}
	return nil
}
