package commands_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApplyTransitionHandler(uow *MockUoW, notifier *MockNotifier) commands.ApplyTransitionCommandHandler {
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return commands.NewApplyTransitionCommandHandler(factory, notifier)
}

func TestApplyTransitionCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	f := newFixture(t)
	o := f.storedOrder(t, order.Pending)
	cmd, err := commands.NewApplyTransitionCommand(o.ID(), order.Preparing, f.restaurant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("Notify", ctx, mock.MatchedBy(func(e order.StatusChanged) bool {
			return e.OrderID == o.ID() && e.Status == order.Preparing && e.CourierID == nil
		})).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	// Act
	updated, err := newApplyTransitionHandler(uow, notifier).Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, updated.Status())
	assert.Equal(t, 2, updated.Version())
	assert.Empty(t, updated.PullEvents(), "events are published once")
	uow.AssertExpectations(t)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_InvalidCommand(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	handler := commands.NewApplyTransitionCommandHandler(factory, new(MockNotifier))

	_, err := handler.Handle(t.Context(), commands.ApplyTransitionCommand{})

	require.ErrorIs(t, err, commands.ErrApplyTransitionCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestApplyTransitionCommandHandler_Handle_RejectedTransitionsWriteNothing(t *testing.T) {
	f := newFixture(t)
	otherRestaurant, err := actor.New(kernel.NewUUID(), actor.Restaurant)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		status   order.Status
		target   order.Status
		by       actor.Actor
		expected error
	}{
		{"customer may not prepare", order.Pending, order.Preparing, f.customer, errs.ErrForbidden},
		{"customer may not cancel after acceptance", order.Preparing, order.Cancelled, f.customer, errs.ErrForbidden},
		{"restaurant acts on its own orders only", order.Pending, order.Preparing, otherRestaurant, errs.ErrForbidden},
		{"skipping a state", order.Pending, order.Ready, f.restaurant, errs.ErrInvalidTransition},
		{"terminal orders are immutable", order.Delivered, order.Cancelled, f.admin, errs.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			o := f.storedOrder(t, tc.status)
			cmd, err := commands.NewApplyTransitionCommand(o.ID(), tc.target, tc.by)
			require.NoError(t, err)

			repo := new(MockOrderRepository)
			uow := new(MockUoW)
			notifier := new(MockNotifier)
			expectMutation(uow, repo, o)
			uow.On("Rollback", ctx).Return(nil).Once()

			_, err = newApplyTransitionHandler(uow, notifier).Handle(ctx, cmd)

			require.ErrorIs(t, err, tc.expected)
			assert.Equal(t, tc.status, o.Status())
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
			notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
			uow.AssertExpectations(t)
		})
	}
}

func TestApplyTransitionCommandHandler_Handle_ConflictNotifiesNobody(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.storedOrder(t, order.Pending)
	cmd, err := commands.NewApplyTransitionCommand(o.ID(), order.Cancelled, f.customer)
	require.NoError(t, err)

	conflict := errs.NewConflictError("order", o.ID().String())
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	expectMutation(uow, repo, o)
	repo.On("Update", ctx, o).Return(conflict).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, err = newApplyTransitionHandler(uow, notifier).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestApplyTransitionCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.storedOrder(t, order.Pending)
	cmd, err := commands.NewApplyTransitionCommand(o.ID(), order.Preparing, f.restaurant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("order", o.ID().String())).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, err = newApplyTransitionHandler(uow, new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}

func TestApplyTransitionCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, err := commands.NewApplyTransitionCommand(f.storedOrder(t, order.Pending).ID(), order.Preparing, f.restaurant)
	require.NoError(t, err)

	expectedError := errors.New("begin transaction failed")
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(expectedError).Once()

	_, err = newApplyTransitionHandler(uow, new(MockNotifier)).Handle(ctx, cmd)

	assert.Equal(t, expectedError, err)
	uow.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestApplyTransitionCommandHandler_Handle_CommitErrorNotifiesNobody(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.storedOrder(t, order.Ready)
	cmd, err := commands.NewApplyTransitionCommand(o.ID(), order.Cancelled, f.admin)
	require.NoError(t, err)

	expectedError := errs.NewUpstreamFailureError("commit", errors.New("connection reset"))
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	expectMutation(uow, repo, o)
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(expectedError).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, err = newApplyTransitionHandler(uow, notifier).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrUpstreamFailure)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestApplyTransitionCommandHandler_Handle_NotifierErrorIsIgnored(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.storedOrder(t, order.Preparing)
	cmd, err := commands.NewApplyTransitionCommand(o.ID(), order.Ready, f.restaurant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	expectMutation(uow, repo, o)
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	notifier.On("Notify", ctx, mock.AnythingOfType("order.StatusChanged")).Return(errors.New("push down")).Once()

	updated, err := newApplyTransitionHandler(uow, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Ready, updated.Status())
	notifier.AssertExpectations(t)
}
