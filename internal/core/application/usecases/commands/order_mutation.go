package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// mutateOrder is the read, validate, conditional write, commit, notify
// sequence shared by every command that changes an existing order.
//
// mutate runs against the loaded aggregate and must leave it untouched when it
// fails. The repository Update only succeeds if the stored order still has the
// status and version it was loaded with, so of two racing commands on the same
// order exactly one commits and the other gets errs.ErrConflict.
//
// Events are pulled only after a successful commit; a failed command
// notifies nobody.
func mutateOrder(
	ctx context.Context,
	uow OrderUoW,
	notifier ports.Notifier,
	orderID kernel.UUID,
	mutate func(o *order.Order) error,
) (*order.Order, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = mutate(o); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// Delivery is best effort once the write is committed. Sink failures are
	// logged by events.Dispatcher and never undo or fail the command.
	for _, event := range o.PullEvents() {
		_ = notifier.Notify(ctx, event)
	}

	return o, nil
}
