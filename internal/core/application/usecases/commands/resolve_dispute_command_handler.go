package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const operationResolveDispute = "resolve_dispute"

// ResolveDisputeCommandHandler closes a dispute review. The order moves to
// dispute_resolved or dispute_rejected, any carried deduction is charged
// through the ledger, and a settlement put on hold when the dispute opened is
// confirmed back into the payout pipeline. One transaction covers all of it.
type ResolveDisputeCommandHandler struct {
	uowFactory PaymentUoWFactory
	publisher  ports.EventPublisher
}

// NewResolveDisputeCommandHandler creates a handler for dispute resolution.
func NewResolveDisputeCommandHandler(
	uowFactory PaymentUoWFactory,
	publisher ports.EventPublisher,
) ResolveDisputeCommandHandler {
	return ResolveDisputeCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle resolves the dispute. A replayed idempotency key returns without
// re-executing; a replay that slipped past the key is still safe because the
// deduction dedupes on its (sourceType, sourceID) tuple.
func (h ResolveDisputeCommandHandler) Handle(ctx context.Context, cmd ResolveDisputeCommand) error {
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

	claimed, err := uow.IdempotencyKeys().Claim(ctx, cmd.Actor(), operationResolveDispute, cmd.IdempotencyKey())
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

	target := order.DisputeRejected
	if cmd.Resolved() {
		target = order.DisputeResolved
	}
	from := orderAggregate.Status()
	if err = orderAggregate.ChangeStatus(target); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}

	settlementAggregate, err := h.settleDispute(ctx, uow, cmd)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, target)
	if settlementAggregate != nil {
		kind := ports.SettlementEventConfirmed
		if cmd.DeductionAmount() > 0 {
			kind = ports.SettlementEventDeductionApplied
		}
		h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), cmd.OrderID(),
			kind, settlementAggregate.NetAmount())
	}
	return nil
}

// settleDispute applies the carried deduction and releases the payout hold.
// Disputes opened before a settlement exists have nothing to settle; that
// returns nil without error.
func (h ResolveDisputeCommandHandler) settleDispute(
	ctx context.Context,
	uow PaymentUoW,
	cmd ResolveDisputeCommand,
) (*settlement.Settlement, error) {
	settlementAggregate, err := uow.SettlementRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()

	if cmd.Resolved() && cmd.DeductionAmount() > 0 {
		entry, applied, err := settlementAggregate.ApplyDeduction(
			kernel.NewUUID(), settlement.SourceDispute, cmd.DisputeID(),
			cmd.DeductionAmount(), cmd.DeductionReason(), now,
		)
		if err != nil {
			return nil, err
		}
		if applied {
			if err = uow.SettlementRepository().AppendEntry(ctx, entry); err != nil {
				return nil, err
			}
		}
	}

	if settlementAggregate.Status() == settlement.OnHold {
		if err = settlementAggregate.Confirm(now); err != nil {
			return nil, err
		}
		if err = uow.SettlementRepository().Update(ctx, settlementAggregate); err != nil {
			return nil, err
		}
	}

	return settlementAggregate, nil
}
