package commands_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if orders, ok := args.Get(0).([]*order.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*courier.Courier); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourierRepository) List(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if couriers, ok := args.Get(0).([]*courier.Courier); ok {
		return couriers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if couriers, ok := args.Get(0).([]*courier.Courier); ok {
		return couriers, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUoW satisfies OrderUoW, CourierUoW and UoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, event order.StatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fixture struct {
	customer   actor.Actor
	restaurant actor.Actor
	courier    actor.Actor
	admin      actor.Actor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	newActor := func(role actor.Role) actor.Actor {
		a, err := actor.New(kernel.NewUUID(), role)
		require.NoError(t, err)
		return a
	}
	return fixture{
		customer:   newActor(actor.Customer),
		restaurant: newActor(actor.Restaurant),
		courier:    newActor(actor.Courier),
		admin:      newActor(actor.Admin),
	}
}

func (f fixture) pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 1, 1500)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), f.customer.ID(), f.restaurant.ID(), []order.Item{item}, time.Now())
	require.NoError(t, err)
	return o
}

// storedOrder returns o as a repository would, with no pending events.
func (f fixture) storedOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o := f.pendingOrder(t)
	steps := map[order.Status][]order.Status{
		order.Preparing:      {order.Preparing},
		order.Ready:          {order.Preparing, order.Ready},
		order.OutForDelivery: {order.Preparing, order.Ready},
		order.Delivered:      {order.Preparing, order.Ready},
		order.Cancelled:      {order.Cancelled},
	}
	for _, step := range steps[status] {
		require.NoError(t, o.Transition(step, f.restaurant, time.Now()))
	}
	if status == order.OutForDelivery || status == order.Delivered {
		require.NoError(t, o.Claim(f.courier, time.Now()))
	}
	if status == order.Delivered {
		require.NoError(t, o.Transition(order.Delivered, f.courier, time.Now()))
	}

	restored, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	return restored
}

// expectMutation wires a successful load for o on a fresh unit of work.
func expectMutation(uow *MockUoW, repo *MockOrderRepository, o *order.Order) {
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
}
