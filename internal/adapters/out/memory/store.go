// Package memory is an in-process implementation of the order store and the
// courier directory, used for local runs and tests.
//
// Writes made inside a unit of work are staged and applied under the store
// lock on Commit. Order updates are re-checked against the stored status and
// version at that point, which gives the same single-winner guarantee as the
// conditional UPDATE of the postgres adapter.
package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ErrTransactionNotActive is returned by Commit and Rollback outside Begin.
var ErrTransactionNotActive = errors.New("transaction is not active")

type orderRecord struct {
	snapshot order.Snapshot
	seq      int64
}

type courierRecord struct {
	id           kernel.UUID
	name         string
	availability courier.Availability
	createdAt    time.Time
}

// Store holds every order and courier. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	orders   map[kernel.UUID]orderRecord
	couriers map[kernel.UUID]courierRecord
	seq      int64
}

func NewStore() *Store {
	return &Store{
		orders:   make(map[kernel.UUID]orderRecord),
		couriers: make(map[kernel.UUID]courierRecord),
	}
}

func (s *Store) getOrder(id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	rec, ok := s.orders[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(cloneSnapshot(rec.snapshot))
}

func (s *Store) listOrders(filter ports.OrderFilter) ([]*order.Order, error) {
	s.mu.RLock()
	records := make([]orderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		if filter.Status != nil && rec.snapshot.Status != *filter.Status {
			continue
		}
		records = append(records, rec)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.snapshot.CreatedAt.Equal(b.snapshot.CreatedAt) {
			return a.snapshot.CreatedAt.Before(b.snapshot.CreatedAt)
		}
		return a.seq < b.seq
	})

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := order.RestoreOrder(cloneSnapshot(rec.snapshot))
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *Store) getCourier(id kernel.UUID) (*courier.Courier, error) {
	s.mu.RLock()
	rec, ok := s.couriers[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	return courier.RestoreCourier(rec.id, rec.name, rec.availability, rec.createdAt)
}

func (s *Store) listCouriers(onlyAvailable bool) ([]*courier.Courier, error) {
	s.mu.RLock()
	records := make([]courierRecord, 0, len(s.couriers))
	for _, rec := range s.couriers {
		if onlyAvailable && rec.availability != courier.Available {
			continue
		}
		records = append(records, rec)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.id.String() < b.id.String()
	})

	couriers := make([]*courier.Courier, 0, len(records))
	for _, rec := range records {
		c, err := courier.RestoreCourier(rec.id, rec.name, rec.availability, rec.createdAt)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}

// stagedWrite is validated against the store state and then applied, both
// under the write lock.
type stagedWrite struct {
	check func(s *Store) error
	apply func(s *Store)
}

// applyAll applies every write or none of them.
func (s *Store) applyAll(writes []stagedWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if err := w.check(s); err != nil {
			return err
		}
	}
	for _, w := range writes {
		w.apply(s)
	}
	return nil
}

func addOrderWrite(aggregate *order.Order) stagedWrite {
	snapshot := cloneSnapshot(aggregate.Snapshot())
	return stagedWrite{
		check: func(s *Store) error {
			if _, ok := s.orders[snapshot.ID]; ok {
				return errs.NewConflictErrorWithCause("order", snapshot.ID.String(), errors.New("order already exists"))
			}
			return nil
		},
		apply: func(s *Store) {
			s.seq++
			s.orders[snapshot.ID] = orderRecord{snapshot: snapshot, seq: s.seq}
		},
	}
}

func updateOrderWrite(aggregate *order.Order) stagedWrite {
	snapshot := cloneSnapshot(aggregate.Snapshot())
	expectedStatus := aggregate.PersistedStatus()
	expectedVersion := aggregate.PersistedVersion()
	return stagedWrite{
		check: func(s *Store) error {
			rec, ok := s.orders[snapshot.ID]
			if !ok {
				return errs.NewObjectNotFoundError("order", snapshot.ID.String())
			}
			if rec.snapshot.Status != expectedStatus || rec.snapshot.Version != expectedVersion {
				return errs.NewConflictErrorWithCause("order", snapshot.ID.String(),
					errors.New("order was changed concurrently"))
			}
			return nil
		},
		apply: func(s *Store) {
			rec := s.orders[snapshot.ID]
			rec.snapshot = snapshot
			s.orders[snapshot.ID] = rec
		},
	}
}

func addCourierWrite(c *courier.Courier) stagedWrite {
	rec := courierRecord{id: c.ID(), name: c.Name(), availability: c.Availability(), createdAt: c.CreatedAt()}
	return stagedWrite{
		check: func(s *Store) error {
			if _, ok := s.couriers[rec.id]; ok {
				return errs.NewConflictErrorWithCause("courier", rec.id.String(), errors.New("courier already exists"))
			}
			return nil
		},
		apply: func(s *Store) {
			s.couriers[rec.id] = rec
		},
	}
}

func updateCourierWrite(c *courier.Courier) stagedWrite {
	rec := courierRecord{id: c.ID(), name: c.Name(), availability: c.Availability(), createdAt: c.CreatedAt()}
	return stagedWrite{
		check: func(s *Store) error {
			if _, ok := s.couriers[rec.id]; !ok {
				return errs.NewObjectNotFoundError("courier", rec.id.String())
			}
			return nil
		},
		apply: func(s *Store) {
			s.couriers[rec.id] = rec
		},
	}
}

func cloneSnapshot(s order.Snapshot) order.Snapshot {
	clone := s
	clone.Items = append([]order.Item(nil), s.Items...)
	if s.CourierID != nil {
		id := *s.CourierID
		clone.CourierID = &id
	}
	if s.PickedUpAt != nil {
		at := *s.PickedUpAt
		clone.PickedUpAt = &at
	}
	return clone
}
