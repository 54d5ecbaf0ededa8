package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
)

// SettlementRepository defines the persistence contract for settlement
// aggregates and their deduction ledger.
//
// Ledger writes are delta-based on purpose: the running deductionTotal and
// netAmount move by `amount`, never by full recomputation, so concurrent
// corrections against other sources are not clobbered.
type SettlementRepository interface {
	// Add persists a new settlement. The storage layer enforces at most one
	// settlement per order; a duplicate insert fails even if the existence
	// check raced another writer.
	Add(ctx context.Context, aggregate *settlement.Settlement) error

	// Update persists the settlement's lifecycle fields (status, timestamps).
	// Ledger totals are written through the delta methods below only.
	Update(ctx context.Context, aggregate *settlement.Settlement) error

	// Get retrieves a settlement with its ledger entries by identifier.
	Get(ctx context.Context, id kernel.UUID) (*settlement.Settlement, error)

	// GetByOrder retrieves the settlement owned by an order, with its
	// ledger entries.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*settlement.Settlement, error)

	// GetAllInStatus retrieves all settlements in the given lifecycle status.
	GetAllInStatus(ctx context.Context, status settlement.Status) ([]*settlement.Settlement, error)

	// AppendEntry persists a newly applied ledger entry and moves the owning
	// settlement's deductionTotal/netAmount by the entry amount, atomically
	// within the surrounding transaction.
	AppendEntry(ctx context.Context, entry *settlement.LedgerEntry) error

	// MarkEntryReversed stamps the entry's reversedAt and applies the inverse
	// delta to the owning settlement's deductionTotal/netAmount.
	MarkEntryReversed(ctx context.Context, entry *settlement.LedgerEntry, at time.Time) error
}
