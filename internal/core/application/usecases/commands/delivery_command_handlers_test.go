package commands_test

import (
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), 2500, 20*time.Minute)
	require.NoError(t, err)
	return d
}

func newAssignedDelivery(t *testing.T, courierID kernel.UUID, assignedAt time.Time) *delivery.Delivery {
	t.Helper()
	d := newTestDelivery(t)
	require.NoError(t, d.Assign(courierID, assignedAt))
	return d
}

func newInDeliveryDelivery(t *testing.T, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()
	now := time.Now()
	d := newAssignedDelivery(t, courierID, now)
	require.NoError(t, d.Accept(courierID, now))
	require.NoError(t, d.PickUp(courierID, now))
	require.NoError(t, d.Start(courierID, now))
	return d
}

func TestAssignDeliveryCommandHandler_Handle(t *testing.T) {
	t.Run("admin assigns active courier", func(t *testing.T) {
		ctx := t.Context()
		d := newTestDelivery(t)
		c, err := courier.RestoreCourier(kernel.NewUUID(), "Lee", true)
		require.NoError(t, err)

		cmd, err := commands.NewAssignDeliveryCommand(mustActor(kernel.RoleAdmin, kernel.NewUUID()), d.ID(), c.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
			uow.couriers.On("Get", ctx, c.ID()).Return(c, nil).Once(),
			uow.deliveries.On("Update", ctx, d).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		err = commands.NewAssignDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, delivery.Assigned, d.Status())
		assert.True(t, d.IsAssignedTo(c.ID()))
		uow.assertExpectations(t)
	})

	t.Run("inactive courier", func(t *testing.T) {
		ctx := t.Context()
		d := newTestDelivery(t)
		c, err := courier.RestoreCourier(kernel.NewUUID(), "Lee", false)
		require.NoError(t, err)

		cmd, err := commands.NewAssignDeliveryCommand(mustActor(kernel.RoleCourier, c.ID()), d.ID(), c.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbortedTx(ctx)
		uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil).Once()

		err = commands.NewAssignDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.ErrorIs(t, err, courier.ErrCourierIsInactive)
		assert.Equal(t, delivery.Pending, d.Status())
		uow.assertExpectations(t)
	})

	t.Run("courier cannot assign someone else", func(t *testing.T) {
		cmd, err := commands.NewAssignDeliveryCommand(
			mustActor(kernel.RoleCourier, kernel.NewUUID()), kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)

		factory := new(MockUoWFactory)
		err = commands.NewAssignDeliveryCommandHandler(factory).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		factory.AssertNotCalled(t, "Create")
	})
}

func TestAcceptDeliveryCommandHandler_Handle(t *testing.T) {
	courierID := kernel.NewUUID()

	t.Run("assigned courier accepts", func(t *testing.T) {
		ctx := t.Context()
		d := newAssignedDelivery(t, courierID, time.Now())

		cmd, err := commands.NewAcceptDeliveryCommand(mustActor(kernel.RoleCourier, courierID), d.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
			uow.deliveries.On("Update", ctx, d).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		err = commands.NewAcceptDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, delivery.Accepted, d.Status())
		assert.NotNil(t, d.AcceptedAt())
		uow.assertExpectations(t)
	})

	t.Run("other courier is forbidden", func(t *testing.T) {
		ctx := t.Context()
		d := newAssignedDelivery(t, courierID, time.Now())

		cmd, err := commands.NewAcceptDeliveryCommand(mustActor(kernel.RoleCourier, kernel.NewUUID()), d.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbortedTx(ctx)
		uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

		err = commands.NewAcceptDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, delivery.Assigned, d.Status())
		uow.deliveries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.assertExpectations(t)
	})

	t.Run("second accept sees accepted state", func(t *testing.T) {
		ctx := t.Context()
		d := newAssignedDelivery(t, courierID, time.Now())
		require.NoError(t, d.Accept(courierID, time.Now()))

		cmd, err := commands.NewAcceptDeliveryCommand(mustActor(kernel.RoleCourier, courierID), d.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbortedTx(ctx)
		uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

		err = commands.NewAcceptDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		uow.assertExpectations(t)
	})

	t.Run("unassigned delivery", func(t *testing.T) {
		ctx := t.Context()
		d := newTestDelivery(t)

		cmd, err := commands.NewAcceptDeliveryCommand(mustActor(kernel.RoleCourier, courierID), d.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbortedTx(ctx)
		uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

		err = commands.NewAcceptDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		require.ErrorIs(t, err, delivery.ErrNoCourierAssigned)
	})
}

func TestProgressDeliveryCommandHandler_Handle_CompleteRecordsEarning(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newInDeliveryDelivery(t, courierID)

	cmd, err := commands.NewProgressDeliveryCommand(mustActor(kernel.RoleCourier, courierID), d.ID(), commands.CompleteDelivery)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()

	recorder := new(MockDeliveryRecorder)
	recorder.On("Handle", ctx, mock.MatchedBy(func(c commands.RecordCompletedDeliveryCommand) bool {
		return c.DeliveryID() == d.ID()
	})).Return(nil).Once()

	status, err := commands.NewProgressDeliveryCommandHandler(newFactory(uow), recorder, newTestLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, status)
	require.NotNil(t, d.ActualDuration())
	uow.assertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestProgressDeliveryCommandHandler_Handle_EarningFailureDoesNotFailCompletion(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newInDeliveryDelivery(t, courierID)

	cmd, err := commands.NewProgressDeliveryCommand(mustActor(kernel.RoleCourier, courierID), d.ID(), commands.CompleteDelivery)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()

	recorder := new(MockDeliveryRecorder)
	recorder.On("Handle", ctx, mock.Anything).Return(errs.NewObjectNotFoundError("fee rule", courierID)).Once()

	status, err := commands.NewProgressDeliveryCommandHandler(newFactory(uow), recorder, newTestLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, status)
	recorder.AssertExpectations(t)
}

func TestProgressDeliveryCommandHandler_Handle_SkippingStepFails(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newAssignedDelivery(t, courierID, time.Now())

	cmd, err := commands.NewProgressDeliveryCommand(mustActor(kernel.RoleCourier, courierID), d.ID(), commands.StartDelivery)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectAbortedTx(ctx)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	recorder := new(MockDeliveryRecorder)

	_, err = commands.NewProgressDeliveryCommandHandler(newFactory(uow), recorder, newTestLogger()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	recorder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestReopenDeliveryCommandHandler_AssignReopenAssign(t *testing.T) {
	ctx := t.Context()
	first := kernel.NewUUID()
	second := kernel.NewUUID()
	d := newAssignedDelivery(t, first, time.Now())

	require.ErrorIs(t, d.Assign(second, time.Now()), errs.ErrInvalidStateTransition)

	cmd, err := commands.NewReopenDeliveryCommand(mustActor(kernel.RoleAdmin, kernel.NewUUID()), d.ID())
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()

	err = commands.NewReopenDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Pending, d.Status())
	assert.Nil(t, d.CourierID())
	require.NoError(t, d.Assign(second, time.Now()))
	assert.True(t, d.IsAssignedTo(second))
	uow.assertExpectations(t)
}

func TestCancelDeliveryCommandHandler_Handle(t *testing.T) {
	ownerID := kernel.NewUUID()
	storeID := kernel.NewUUID()

	t.Run("store owner cancels", func(t *testing.T) {
		ctx := t.Context()
		o := newTestOrder(t, kernel.NewUUID(), storeID)
		d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), 1200, 10*time.Minute)
		require.NoError(t, err)

		cmd, err := commands.NewCancelDeliveryCommand(mustActor(kernel.RoleStoreOwner, ownerID), d.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.stores.On("OwnerOf", ctx, storeID).Return(ownerID, nil).Once()
		uow.deliveries.On("Update", ctx, d).Return(nil).Once()

		err = commands.NewCancelDeliveryCommandHandler(newFactory(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, delivery.Cancelled, d.Status())
		uow.assertExpectations(t)
	})

	t.Run("buyer is forbidden", func(t *testing.T) {
		cmd, err := commands.NewCancelDeliveryCommand(mustActor(kernel.RoleBuyer, kernel.NewUUID()), kernel.NewUUID())
		require.NoError(t, err)

		err = commands.NewCancelDeliveryCommandHandler(new(MockUoWFactory)).Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestReopenStaleAssignmentsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	timeout := 5 * time.Minute
	courierID := kernel.NewUUID()

	stale := newAssignedDelivery(t, courierID, time.Now().Add(-10*time.Minute))
	acceptedMeanwhile := newAssignedDelivery(t, courierID, time.Now().Add(-10*time.Minute))
	failing := newAssignedDelivery(t, courierID, time.Now().Add(-10*time.Minute))

	// The listing sees all three as stale; under the lock the second one has been accepted.
	lockedAccepted := newAssignedDelivery(t, courierID, time.Now().Add(-10*time.Minute))
	require.NoError(t, lockedAccepted.Accept(courierID, time.Now()))

	reader := newMockUoW()
	reader.deliveries.On("ListStaleAssigned", ctx, mock.AnythingOfType("time.Time"), 100).
		Return([]*delivery.Delivery{stale, acceptedMeanwhile, failing}, nil).Once()

	first := newMockUoW()
	first.expectTx(ctx)
	first.deliveries.On("GetForUpdate", ctx, stale.ID()).Return(stale, nil).Once()
	first.deliveries.On("Update", ctx, stale).Return(nil).Once()

	second := newMockUoW()
	second.expectTx(ctx)
	second.deliveries.On("GetForUpdate", ctx, acceptedMeanwhile.ID()).Return(lockedAccepted, nil).Once()
	second.deliveries.On("Update", ctx, lockedAccepted).Return(nil).Once()

	third := newMockUoW()
	third.expectAbortedTx(ctx)
	third.deliveries.On("GetForUpdate", ctx, failing.ID()).Return(nil, errors.New("connection reset")).Once()

	cmd, err := commands.NewReopenStaleAssignmentsCommand(timeout, 0)
	require.NoError(t, err)

	handler := commands.NewReopenStaleAssignmentsCommandHandler(newFactory(reader, first, second, third), newTestLogger())
	reopened, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, reopened)
	assert.Equal(t, delivery.Pending, stale.Status())
	assert.Equal(t, delivery.Accepted, lockedAccepted.Status())
	for _, uow := range []*MockUoW{reader, first, second, third} {
		uow.assertExpectations(t)
	}
}

func TestNewReopenStaleAssignmentsCommand(t *testing.T) {
	cmd, err := commands.NewReopenStaleAssignmentsCommand(time.Minute, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, cmd.BatchSize())

	_, err = commands.NewReopenStaleAssignmentsCommand(0, 10)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
