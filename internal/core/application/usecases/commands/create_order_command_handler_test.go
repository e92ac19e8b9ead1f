package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	client := actor(t, kernel.RoleClient)
	cmd, err := commands.NewCreateOrderCommand(client, client.ID(), at(10, 0), time.Hour)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	logRepo := new(MockStatusLogRepository)
	uow := new(MockUoW)
	metrics := new(MockMetrics)

	var added *order.Order
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
		uow.On("StatusLogRepository").Return(logRepo).Once(),
		logRepo.On("Append", ctx, mock.MatchedBy(func(e *order.StatusLogEntry) bool {
			return e.Sequence() == 1 && e.Status() == order.Placed && e.OrderID().IsEqual(added.ID())
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	metrics.On("ObserveTransition", "order_placed").Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, metrics)
	o, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Placed, o.Status())
	assert.Nil(t, o.Driver())
	assert.True(t, o.ClientID().IsEqual(cmd.ClientID()))
	require.NoError(t, o.TrackingID().Validate())
	orderRepo.AssertExpectations(t)
	logRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RetriesTakenTrackingID(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	logRepo := new(MockStatusLogRepository)
	uow := new(MockUoW)

	var trackingIDs []string
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("StatusLogRepository").Return(logRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			trackingIDs = append(trackingIDs, args.Get(1).(*order.Order).TrackingID().String())
		}).
		Return(ports.ErrTrackingIDTaken).Once()
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			trackingIDs = append(trackingIDs, args.Get(1).(*order.Order).TrackingID().String())
		}).
		Return(nil).Once()
	logRepo.On("Append", ctx, mock.AnythingOfType("*order.StatusLogEntry")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Twice()

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	o, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, trackingIDs, 2)
	assert.NotEqual(t, trackingIDs[0], trackingIDs[1])
	assert.Equal(t, trackingIDs[1], o.TrackingID().String())
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_GivesUpAfterThreeCollisions(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(ports.ErrTrackingIDTaken).Times(3)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrTrackingIDTaken)
	orderRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ClientForAnotherClient(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(actor(t, kernel.RoleClient), kernel.NewUUID(), at(10, 0), time.Hour)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, nil)

	_, err := h.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestCreateOrderCommandHandler_Handle_AppendError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	logRepo := new(MockStatusLogRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("StatusLogRepository").Return(logRepo).Once(),
		logRepo.On("Append", ctx, mock.AnythingOfType("*order.StatusLogEntry")).Return(errors.New("append error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "append error")
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}
