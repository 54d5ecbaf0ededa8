package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
)

// ReverseDeductionCommandHandler handles deduction reversal. The reversed
// entry stays in the ledger with its reversedAt stamp; the settlement totals
// move back by the inverse delta.
type ReverseDeductionCommandHandler struct {
	uowFactory LedgerUoWFactory
	publisher  ports.EventPublisher
}

// NewReverseDeductionCommandHandler creates a handler for deduction reversal.
func NewReverseDeductionCommandHandler(
	uowFactory LedgerUoWFactory,
	publisher ports.EventPublisher,
) ReverseDeductionCommandHandler {
	return ReverseDeductionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle reverses the active entry for the command's source tuple and
// returns it.
func (h ReverseDeductionCommandHandler) Handle(
	ctx context.Context,
	cmd ReverseDeductionCommand,
) (*settlement.LedgerEntry, error) {
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

	settlementAggregate, err := uow.SettlementRepository().Get(ctx, cmd.SettlementID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, err := settlementAggregate.ReverseDeduction(cmd.SourceType(), cmd.SourceID(), now)
	if err != nil {
		return nil, err
	}

	if err = uow.SettlementRepository().MarkEntryReversed(ctx, entry, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), settlementAggregate.OrderID(),
		ports.SettlementEventDeductionReversed, settlementAggregate.NetAmount())
	return entry, nil
}
