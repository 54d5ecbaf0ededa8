package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/application"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func closingReportFixture(t *testing.T) order.ClosingData {
	t.Helper()
	closing, err := order.NewClosingData(10, 2, 3, 10000, 2000, nil)
	require.NoError(t, err)
	return closing
}

func inProgressOrder(t *testing.T, orderID, helperID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(orderID, kernel.NewUUID(), &helperID, order.InProgress, nil, nil)
	require.NoError(t, err)
	return o
}

func selectedApplication(t *testing.T, orderID, helperID kernel.UUID) *application.Application {
	t.Helper()
	rate, err := settlement.NewRateSnapshot(100, 70, 30, nil, settlement.SourceApplicationSnapshot)
	require.NoError(t, err)
	app, err := application.RestoreApplication(kernel.NewUUID(), orderID, helperID, nil, &rate, true)
	require.NoError(t, err)
	return app
}

func existingSettlement(t *testing.T, orderID, helperID kernel.UUID) *settlement.Settlement {
	t.Helper()
	rate, err := settlement.NewRateSnapshot(100, 70, 30, nil, settlement.SourceApplicationSnapshot)
	require.NoError(t, err)
	s, err := settlement.NewSettlement(kernel.NewUUID(), orderID, helperID, rate, settlement.Result{
		TotalBillableCount:   15,
		DeliveryReturnAmount: 120000,
		EtcAmount:            6000,
		SupplyAmount:         126000,
		VATAmount:            12600,
		TotalAmount:          138600,
		DepositAmount:        27720,
		BalanceAmount:        110880,
	}, 13860)
	require.NoError(t, err)
	return s
}

func TestSubmitClosingReportCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	helperID := kernel.NewUUID()
	cmd, _ := commands.NewSubmitClosingReportCommand(orderID, closingReportFixture(t))

	app := selectedApplication(t, orderID, helperID)

	policy := new(MockPolicyProvider)
	policy.On("EffectiveRate", helperID, (*kernel.UUID)(nil)).Return(effectiveRateFixture(t)).Once()
	policy.On("DepositPermille").Return(200).Once()

	orderRepo := new(MockOrderRepository)
	appRepo := new(MockApplicationRepository)
	settlementRepo := new(MockSettlementRepository)
	uow := new(MockClosingUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("GetByOrder", mock.Anything, orderID).
			Return(nil, errs.NewObjectNotFoundError("order_id", orderID.String())).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, orderID).
			Return(inProgressOrder(t, orderID, helperID), nil).Once(),
		uow.On("ApplicationRepository").Return(appRepo).Once(),
		appRepo.On("GetByOrderAndHelper", mock.Anything, orderID, helperID).Return(app, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
			return o.Status() == order.ClosingSubmitted && o.Closing() != nil
		})).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("Add", mock.Anything, mock.AnythingOfType("*settlement.Settlement")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged",
		mock.Anything, orderID, order.InProgress, order.ClosingSubmitted).Once()
	publisher.On("PublishSettlementChanged",
		mock.Anything, mock.AnythingOfType("kernel.UUID"), orderID,
		ports.SettlementEventCreated, mock.AnythingOfType("int64")).Once()

	factory := new(MockClosingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitClosingReportCommandHandler(
		factory, policy, services.NewRateResolver(), services.NewSettlementCalculator(), publisher,
	)
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, created)

	// The application's frozen 10% rate applies to a 138600 total.
	assert.Equal(t, settlement.Pending, created.Status())
	assert.True(t, created.OrderID().IsEqual(orderID))
	assert.True(t, created.HelperID().IsEqual(helperID))
	assert.Equal(t, settlement.SourceApplicationSnapshot, created.Rate().Source())
	assert.Equal(t, int64(138600), created.Result().TotalAmount)
	assert.Equal(t, int64(27720), created.Result().DepositAmount)
	assert.Equal(t, int64(13860), created.PlatformFee())
	assert.Equal(t, int64(138600-13860), created.NetAmount())

	settlementRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	appRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubmitClosingReportCommandHandler_Handle_AlreadySubmitted(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	helperID := kernel.NewUUID()
	cmd, _ := commands.NewSubmitClosingReportCommand(orderID, closingReportFixture(t))

	existing := existingSettlement(t, orderID, helperID)

	settlementRepo := new(MockSettlementRepository)
	uow := new(MockClosingUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("GetByOrder", mock.Anything, orderID).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := new(MockEventPublisher)
	policy := new(MockPolicyProvider)
	factory := new(MockClosingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitClosingReportCommandHandler(
		factory, policy, services.NewRateResolver(), services.NewSettlementCalculator(), publisher,
	)
	answered, err := h.Handle(ctx, cmd)

	// A duplicate submission answers the persisted settlement unchanged.
	require.NoError(t, err)
	assert.Same(t, existing, answered)
	settlementRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubmitClosingReportCommandHandler_Handle_HelperNotSelected(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewSubmitClosingReportCommand(orderID, closingReportFixture(t))

	unmatched, err := order.RestoreOrder(orderID, kernel.NewUUID(), nil, order.InProgress, nil, nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	settlementRepo := new(MockSettlementRepository)
	uow := new(MockClosingUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("SettlementRepository").Return(settlementRepo).Once(),
		settlementRepo.On("GetByOrder", mock.Anything, orderID).
			Return(nil, errs.NewObjectNotFoundError("order_id", orderID.String())).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, orderID).Return(unmatched, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := new(MockEventPublisher)
	policy := new(MockPolicyProvider)
	factory := new(MockClosingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitClosingReportCommandHandler(
		factory, policy, services.NewRateResolver(), services.NewSettlementCalculator(), publisher,
	)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrHelperNotSelected)
	uow.AssertExpectations(t)
}
