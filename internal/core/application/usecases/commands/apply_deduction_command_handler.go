package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
)

// ApplyDeductionCommandHandler handles deduction application against the
// settlement ledger. Retries are safe: the (sourceType, sourceID) tuple is
// the natural idempotency key, so a duplicate application is a logged no-op
// answering the previously recorded entry.
type ApplyDeductionCommandHandler struct {
	uowFactory LedgerUoWFactory
	publisher  ports.EventPublisher
}

// NewApplyDeductionCommandHandler creates a handler for deduction
// application.
func NewApplyDeductionCommandHandler(
	uowFactory LedgerUoWFactory,
	publisher ports.EventPublisher,
) ApplyDeductionCommandHandler {
	return ApplyDeductionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle applies the deduction and reports whether this call changed the
// ledger. applied=false with a nil error means the entry already existed and
// is returned as-is.
func (h ApplyDeductionCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyDeductionCommand,
) (entry *settlement.LedgerEntry, applied bool, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlementAggregate, err := uow.SettlementRepository().Get(ctx, cmd.SettlementID())
	if err != nil {
		return nil, false, err
	}

	entry, applied, err = settlementAggregate.ApplyDeduction(
		kernel.NewUUID(), cmd.SourceType(), cmd.SourceID(), cmd.Amount(), cmd.Reason(), time.Now().UTC(),
	)
	if err != nil {
		return nil, false, err
	}
	if !applied {
		slog.Info("duplicate deduction skipped",
			"settlement_id", cmd.SettlementID().String(),
			"source_type", cmd.SourceType().String(),
			"source_id", cmd.SourceID(),
		)
		return entry, false, nil
	}

	if err = uow.SettlementRepository().AppendEntry(ctx, entry); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	h.publisher.PublishSettlementChanged(ctx, settlementAggregate.ID(), settlementAggregate.OrderID(),
		ports.SettlementEventDeductionApplied, settlementAggregate.NetAmount())
	return entry, true, nil
}
