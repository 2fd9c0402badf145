package memory

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes between Begin and Commit. Outside a transaction
// writes are applied immediately. Reads always see committed state only.
type UnitOfWork struct {
	store   *Store
	active  bool
	pending []stagedWrite
}

// Begin starts a transaction. Calling it twice is a no-op.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

// Commit applies the staged writes atomically. When any of them no longer
// fits the stored state nothing is written and the error is returned.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrTransactionNotActive
	}

	writes := uow.pending
	uow.pending = nil
	uow.active = false
	return uow.store.applyAll(writes)
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrTransactionNotActive
	}

	uow.pending = nil
	uow.active = false
	return nil
}

func (uow *UnitOfWork) CourierRepository() ports.CourierRepository {
	return &CourierRepository{uow: uow}
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

// write stages w, or applies it right away outside a transaction. The check
// also runs eagerly so that a stale update fails at Update rather than at
// Commit in the common case.
func (uow *UnitOfWork) write(w stagedWrite) error {
	if !uow.active {
		return uow.store.applyAll([]stagedWrite{w})
	}

	uow.store.mu.RLock()
	err := w.check(uow.store)
	uow.store.mu.RUnlock()
	if err != nil {
		return err
	}

	uow.pending = append(uow.pending, w)
	return nil
}
