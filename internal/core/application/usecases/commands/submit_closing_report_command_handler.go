package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// SubmitClosingReportCommandHandler handles closing report submission. The
// order moves in_progress -> closing_submitted and the settlement is computed
// and created in the same transaction, so a closing_submitted order without a
// settlement can never be observed.
//
// Submission is idempotent: if the order already has a settlement the report
// was already processed and the existing settlement is answered unchanged.
// The unique index on the settlement's order id backstops the existence check
// against concurrent submissions.
type SubmitClosingReportCommandHandler struct {
	uowFactory ClosingUoWFactory
	policy     ports.PolicyProvider
	resolver   services.RateResolver
	calculator services.SettlementCalculator
	publisher  ports.EventPublisher
}

// NewSubmitClosingReportCommandHandler creates a handler for closing
// submission.
func NewSubmitClosingReportCommandHandler(
	uowFactory ClosingUoWFactory,
	policy ports.PolicyProvider,
	resolver services.RateResolver,
	calculator services.SettlementCalculator,
	publisher ports.EventPublisher,
) SubmitClosingReportCommandHandler {
	return SubmitClosingReportCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		resolver:   resolver,
		calculator: calculator,
		publisher:  publisher,
	}
}

// Handle records the report and returns the order's settlement, freshly
// created or previously persisted.
func (h SubmitClosingReportCommandHandler) Handle(
	ctx context.Context,
	cmd SubmitClosingReportCommand,
) (*settlement.Settlement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.SettlementRepository().GetByOrder(ctx, cmd.OrderID())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := orderAggregate.Status()
	if err = orderAggregate.SubmitClosing(cmd.Closing()); err != nil {
		return nil, err
	}

	settlementAggregate, err := h.buildSettlement(ctx, uow, orderAggregate, cmd.Closing())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return nil, err
	}
	if err = uow.SettlementRepository().Add(ctx, settlementAggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, order.ClosingSubmitted)
	h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), cmd.OrderID(),
		ports.SettlementEventCreated, settlementAggregate.NetAmount())
	return settlementAggregate, nil
}

// buildSettlement resolves the frozen commission rate, runs the calculator
// over the report and assembles the pending settlement.
func (h SubmitClosingReportCommandHandler) buildSettlement(
	ctx context.Context,
	uow ClosingUoW,
	orderAggregate *order.Order,
	closing order.ClosingData,
) (*settlement.Settlement, error) {
	helperID := orderAggregate.Helper()
	if helperID == nil {
		return nil, order.ErrHelperNotSelected
	}

	applicationAggregate, err := uow.ApplicationRepository().GetByOrderAndHelper(ctx, orderAggregate.ID(), *helperID)
	if err != nil {
		return nil, err
	}

	effective := h.policy.EffectiveRate(*helperID, applicationAggregate.TeamLeader())
	rate, err := h.resolver.Resolve(applicationAggregate, orderAggregate, effective)
	if err != nil {
		return nil, err
	}

	payout, err := h.calculator.ComputePayout(closing, rate, 0, h.policy.DepositPermille())
	if err != nil {
		return nil, err
	}

	return settlement.NewSettlement(
		kernel.NewUUID(), orderAggregate.ID(), *helperID,
		rate, payout.Result, payout.PlatformFee,
	)
}
