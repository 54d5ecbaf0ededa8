package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
)

// MarkSettlementsPayableCommandHandler releases confirmed settlements for
// payout once the requester's balance payment has landed. It is driven by the
// periodic sweep job and has no command payload: each run scans every
// confirmed settlement and promotes the ones whose order is balance_paid.
type MarkSettlementsPayableCommandHandler struct {
	uowFactory OrderSettlementUoWFactory
	publisher  ports.EventPublisher
}

// NewMarkSettlementsPayableCommandHandler creates a handler for the payable
// sweep.
func NewMarkSettlementsPayableCommandHandler(
	uowFactory OrderSettlementUoWFactory,
	publisher ports.EventPublisher,
) MarkSettlementsPayableCommandHandler {
	return MarkSettlementsPayableCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle promotes eligible settlements and returns how many were released.
// The sweep is naturally idempotent: promoted settlements leave the confirmed
// set, so a rerun sees nothing to do.
func (h MarkSettlementsPayableCommandHandler) Handle(ctx context.Context) (int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	confirmed, err := uow.SettlementRepository().GetAllInStatus(ctx, settlement.Confirmed)
	if err != nil {
		return 0, err
	}

	released := make([]*settlement.Settlement, 0, len(confirmed))
	for _, settlementAggregate := range confirmed {
		orderAggregate, err := uow.OrderRepository().Get(ctx, settlementAggregate.OrderID())
		if err != nil {
			return 0, err
		}
		if orderAggregate.Status() != order.BalancePaid {
			continue
		}

		if err = settlementAggregate.MarkPayable(); err != nil {
			return 0, err
		}
		if err = uow.SettlementRepository().Update(ctx, settlementAggregate); err != nil {
			return 0, err
		}
		released = append(released, settlementAggregate)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, settlementAggregate := range released {
		h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), settlementAggregate.OrderID(),
			ports.SettlementEventPayable, settlementAggregate.NetAmount())
	}
	if len(released) > 0 {
		slog.Info("settlements released for payout", "count", len(released))
	}
	return len(released), nil
}
