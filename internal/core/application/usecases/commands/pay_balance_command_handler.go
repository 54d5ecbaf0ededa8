package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

const operationPayBalance = "pay_balance"

// PayBalanceCommandHandler handles the requester's balance payment. The
// amount owed is read from the persisted settlement result, never recomputed
// from the closing report, so a later correction or policy change cannot
// shift what was actually charged.
type PayBalanceCommandHandler struct {
	uowFactory PaymentUoWFactory
	publisher  ports.EventPublisher
}

// NewPayBalanceCommandHandler creates a handler for balance payment.
func NewPayBalanceCommandHandler(
	uowFactory PaymentUoWFactory,
	publisher ports.EventPublisher,
) PayBalanceCommandHandler {
	return PayBalanceCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle records the payment and returns the balance amount charged.
// A replayed idempotency key answers the persisted amount without moving
// the order again.
func (h PayBalanceCommandHandler) Handle(ctx context.Context, cmd PayBalanceCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlementAggregate, err := uow.SettlementRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}
	balance := settlementAggregate.Result().BalanceAmount

	claimed, err := uow.IdempotencyKeys().Claim(ctx, cmd.Actor(), operationPayBalance, cmd.IdempotencyKey())
	if err != nil {
		return 0, err
	}
	if !claimed {
		return balance, nil
	}

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}

	from := orderAggregate.Status()
	if err = orderAggregate.ChangeStatus(order.BalancePaid); err != nil {
		return 0, err
	}
	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, order.BalancePaid)
	return balance, nil
}
