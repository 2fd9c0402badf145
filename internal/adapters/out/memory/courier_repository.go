package memory

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CourierRepository implements ports.CourierRepository on a Store.
type CourierRepository struct {
	uow *UnitOfWork
}

func (r *CourierRepository) Add(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.write(addCourierWrite(aggregate))
}

func (r *CourierRepository) Update(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.write(updateCourierWrite(aggregate))
}

func (r *CourierRepository) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.uow.store.getCourier(id)
}

func (r *CourierRepository) List(_ context.Context) ([]*courier.Courier, error) {
	return r.uow.store.listCouriers(false)
}

func (r *CourierRepository) GetAllAvailable(_ context.Context) ([]*courier.Courier, error) {
	return r.uow.store.listCouriers(true)
}
