package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

const operationPaySettlement = "pay_settlement"

// PaySettlementCommandHandler handles the helper payout. The order moves
// balance_paid -> settlement_paid and the settlement moves payable -> paid
// with its ledger frozen, in one transaction.
type PaySettlementCommandHandler struct {
	uowFactory PaymentUoWFactory
	publisher  ports.EventPublisher
}

// NewPaySettlementCommandHandler creates a handler for the helper payout.
func NewPaySettlementCommandHandler(
	uowFactory PaymentUoWFactory,
	publisher ports.EventPublisher,
) PaySettlementCommandHandler {
	return PaySettlementCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle records the payout. A replayed idempotency key returns without
// paying twice.
func (h PaySettlementCommandHandler) Handle(ctx context.Context, cmd PaySettlementCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claimed, err := uow.IdempotencyKeys().Claim(ctx, cmd.Actor(), operationPaySettlement, cmd.IdempotencyKey())
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	settlementAggregate, err := uow.SettlementRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := orderAggregate.Status()
	if err = orderAggregate.ChangeStatus(order.SettlementPaid); err != nil {
		return err
	}
	if err = settlementAggregate.MarkPaid(time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}
	if err = uow.SettlementRepository().Update(ctx, settlementAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, order.SettlementPaid)
	h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), cmd.OrderID(),
		ports.SettlementEventPaid, settlementAggregate.NetAmount())
	return nil
}
