package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPayBalanceCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	helperID := kernel.NewUUID()
	cmd, _ := commands.NewPayBalanceCommand(orderID, "requester-1", "key-2")

	confirmed := existingSettlement(t, orderID, helperID)
	confirmedOrder, err := order.RestoreOrder(
		orderID, kernel.NewUUID(), &helperID, order.FinalAmountConfirmed, nil, nil,
	)
	require.NoError(t, err)

	keys := new(MockIdempotencyKeys)
	orderRepo := new(MockOrderRepository)
	settlementRepo := new(MockSettlementRepository)
	uow := new(MockPaymentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("GetByOrder", mock.Anything, orderID).Return(confirmed, nil).Once(),
		uow.On("IdempotencyKeys").Return(keys).Once(),
		keys.On("Claim", mock.Anything, "requester-1", "pay_balance", "key-2").
			Return(true, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, orderID).Return(confirmedOrder, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
			return o.Status() == order.BalancePaid
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged",
		mock.Anything, orderID, order.FinalAmountConfirmed, order.BalancePaid).Once()

	factory := new(MockPaymentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPayBalanceCommandHandler(factory, publisher)
	balance, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(110880), balance)
	keys.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	settlementRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPayBalanceCommandHandler_Handle_ReplayedKey(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewPayBalanceCommand(orderID, "requester-1", "key-2")

	confirmed := existingSettlement(t, orderID, kernel.NewUUID())

	keys := new(MockIdempotencyKeys)
	settlementRepo := new(MockSettlementRepository)
	uow := new(MockPaymentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("GetByOrder", mock.Anything, orderID).Return(confirmed, nil).Once(),
		uow.On("IdempotencyKeys").Return(keys).Once(),
		keys.On("Claim", mock.Anything, "requester-1", "pay_balance", "key-2").
			Return(false, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := new(MockEventPublisher)
	factory := new(MockPaymentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewPayBalanceCommandHandler(factory, publisher)
	balance, err := h.Handle(ctx, cmd)

	// The replay still answers the persisted amount owed, without re-moving
	// the order.
	require.NoError(t, err)
	assert.Equal(t, int64(110880), balance)
	keys.AssertExpectations(t)
	settlementRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
