package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler handles generic order status transitions.
// When a transition opens a dispute the order's settlement, if one already
// exists, is put on hold in the same transaction so the payout sweep skips it
// until the dispute resolves.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderSettlementUoWFactory
	publisher  ports.EventPublisher
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderSettlementUoWFactory,
	publisher ports.EventPublisher,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle performs the transition and publishes the change after commit.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
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

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := orderAggregate.Status()
	if err = orderAggregate.ChangeStatus(cmd.To()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}

	if cmd.To() == order.DisputeReviewing {
		if err = h.holdSettlement(ctx, uow, cmd); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, cmd.To())
	return nil
}

// holdSettlement blocks the settlement's payout while the dispute is under
// review. Disputes opened before closing submission have no settlement yet;
// that is not an error.
func (h ChangeOrderStatusCommandHandler) holdSettlement(
	ctx context.Context,
	uow OrderSettlementUoW,
	cmd ChangeOrderStatusCommand,
) error {
	settlementAggregate, err := uow.SettlementRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if settlementAggregate.Status() == settlement.OnHold {
		return nil
	}
	if err = settlementAggregate.Hold(); err != nil {
		return err
	}
	return uow.SettlementRepository().Update(ctx, settlementAggregate)
}
