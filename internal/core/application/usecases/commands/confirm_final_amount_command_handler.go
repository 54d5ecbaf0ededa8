package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

const operationConfirmFinalAmount = "confirm_final_amount"

// ConfirmFinalAmountCommandHandler handles final amount confirmation.
// The order moves closing_submitted -> final_amount_confirmed and the
// settlement moves pending -> confirmed in the same transaction.
type ConfirmFinalAmountCommandHandler struct {
	uowFactory PaymentUoWFactory
	publisher  ports.EventPublisher
}

// NewConfirmFinalAmountCommandHandler creates a handler for final amount
// confirmation.
func NewConfirmFinalAmountCommandHandler(
	uowFactory PaymentUoWFactory,
	publisher ports.EventPublisher,
) ConfirmFinalAmountCommandHandler {
	return ConfirmFinalAmountCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle confirms the final amount. A replayed idempotency key returns
// without re-executing.
func (h ConfirmFinalAmountCommandHandler) Handle(ctx context.Context, cmd ConfirmFinalAmountCommand) error {
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

	claimed, err := uow.IdempotencyKeys().Claim(ctx, cmd.Actor(), operationConfirmFinalAmount, cmd.IdempotencyKey())
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
	if orderAggregate.Closing() == nil {
		return order.ErrClosingNotSubmitted
	}

	from := orderAggregate.Status()
	if err = orderAggregate.ChangeStatus(order.FinalAmountConfirmed); err != nil {
		return err
	}

	settlementAggregate, err := uow.SettlementRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = settlementAggregate.Confirm(time.Now().UTC()); err != nil {
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

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, order.FinalAmountConfirmed)
	h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), cmd.OrderID(),
		ports.SettlementEventConfirmed, settlementAggregate.NetAmount())
	return nil
}
