package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

type AutoAssignJobSuite struct {
	suite.Suite
	ctx        context.Context
	factory    *memory.UnitOfWorkFactory
	orders     ports.OrderRepository
	couriers   ports.CourierRepository
	restaurant actor.Actor
	job        *jobs.AutoAssignJob
}

func TestAutoAssignJobSuite(t *testing.T) {
	suite.Run(t, new(AutoAssignJobSuite))
}

func (s *AutoAssignJobSuite) SetupTest() {
	s.ctx = context.Background()
	s.factory = memory.NewUnitOfWorkFactory(memory.NewStore())
	uow := s.factory.Create()
	s.orders = uow.OrderRepository()
	s.couriers = uow.CourierRepository()

	var err error
	s.restaurant, err = actor.New(kernel.NewUUID(), actor.Restaurant)
	s.Require().NoError(err)
	system, err := actor.New(kernel.NewUUID(), actor.Admin)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := commands.NewAssignCourierCommandHandler(
		uowFactoryFunc(func() commands.UoW { return s.factory.Create() }),
		events.NewDispatcher(logger),
	)
	s.job = jobs.NewAutoAssignJob(s.orders, handler, system, "* * * * * *", logger)
}

func (s *AutoAssignJobSuite) addOrder(status order.Status) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), 1, 900)
	s.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), s.restaurant.ID(), []order.Item{item}, time.Now())
	s.Require().NoError(err)
	if status == order.Preparing || status == order.Ready {
		s.Require().NoError(o.Transition(order.Preparing, s.restaurant, time.Now()))
	}
	if status == order.Ready {
		s.Require().NoError(o.Transition(order.Ready, s.restaurant, time.Now()))
	}
	stored, err := order.RestoreOrder(o.Snapshot())
	s.Require().NoError(err)
	s.Require().NoError(s.orders.Add(s.ctx, stored))
	return stored
}

func (s *AutoAssignJobSuite) addCourier(name string, availability courier.Availability, createdAt time.Time) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name, createdAt)
	s.Require().NoError(err)
	s.Require().NoError(c.SetAvailability(availability))
	s.Require().NoError(s.couriers.Add(s.ctx, c))
	return c
}

func (s *AutoAssignJobSuite) TestAssignsReadyOrders() {
	now := time.Now()
	s.addCourier("offline", courier.Offline, now)
	first := s.addCourier("first", courier.Available, now.Add(time.Second))
	s.addCourier("second", courier.Available, now.Add(2*time.Second))
	ready := s.addOrder(order.Ready)
	pending := s.addOrder(order.Pending)

	assigned := s.job.Run(s.ctx)

	s.Equal(1, assigned)
	got, err := s.orders.Get(s.ctx, ready.ID())
	s.Require().NoError(err)
	s.Equal(order.OutForDelivery, got.Status())
	s.Require().NotNil(got.Courier())
	s.Equal(first.ID(), *got.Courier())

	untouched, err := s.orders.Get(s.ctx, pending.ID())
	s.Require().NoError(err)
	s.Equal(order.Pending, untouched.Status())
}

func (s *AutoAssignJobSuite) TestStopsWhenNoCourierIsAvailable() {
	s.addCourier("busy", courier.Busy, time.Now())
	a := s.addOrder(order.Ready)
	b := s.addOrder(order.Ready)

	s.Equal(0, s.job.Run(s.ctx))

	for _, id := range []kernel.UUID{a.ID(), b.ID()} {
		got, err := s.orders.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(order.Ready, got.Status())
		s.Nil(got.Courier())
	}
}

func (s *AutoAssignJobSuite) TestNothingToDo() {
	s.addCourier("idle", courier.Available, time.Now())

	s.Equal(0, s.job.Run(s.ctx))
}

func (s *AutoAssignJobSuite) TestStartAndStop() {
	s.addCourier("idle", courier.Available, time.Now())
	o := s.addOrder(order.Ready)

	s.Require().NoError(s.job.Start())
	defer s.job.Stop()

	s.Eventually(func() bool {
		got, err := s.orders.Get(s.ctx, o.ID())
		return err == nil && got.Status() == order.OutForDelivery
	}, 3*time.Second, 50*time.Millisecond)
}

func TestAutoAssignJob_InvalidSchedule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := jobs.NewAutoAssignJob(nil, commands.AssignCourierCommandHandler{}, actor.Actor{}, "every minute", logger)

	require.Error(t, job.Start())
}

type fakeJob struct {
	startErr error
	log      *[]string
	name     string
}

func (j fakeJob) Start() error {
	*j.log = append(*j.log, "start "+j.name)
	return j.startErr
}

func (j fakeJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(logger)
		jm.Add("a", fakeJob{log: &log, name: "a"})
		jm.Add("b", fakeJob{log: &log, name: "b"})

		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("failed start stops the jobs already running", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(logger)
		jm.Add("a", fakeJob{log: &log, name: "a"})
		jm.Add("b", fakeJob{log: &log, name: "b", startErr: assert.AnError})

		err := jm.StartAll()

		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, []string{"start a", "start b", "stop a"}, log)
	})
}
