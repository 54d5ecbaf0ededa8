package settlement

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrSettlementIsNotConstructed is returned when a Settlement was not created
	// through NewSettlement or RestoreSettlement.
	ErrSettlementIsNotConstructed = errors.New(
		"Settlement must be created via NewSettlement constructor",
	)

	// ErrSettlementAlreadyPaid rejects ledger mutations on a paid settlement.
	ErrSettlementAlreadyPaid = errors.New("settlement is already paid")
)

// Settlement is the aggregate root owning the computed financial outcome of
// one order for one helper: the frozen rate snapshot, the full computed
// Result, the platform fee, and the running deduction ledger.
//
// Invariants:
//   - netAmount == result.TotalAmount - platformFee - deductionTotal
//   - deductionTotal == sum of active ledger entry amounts
//   - at most one active entry per (sourceType, sourceID)
//   - the ledger is frozen once the settlement is paid
type Settlement struct {
	id          kernel.UUID
	orderID     kernel.UUID
	helperID    kernel.UUID
	rate        RateSnapshot
	result      Result
	platformFee int64

	deductionTotal int64
	netAmount      int64

	status      Status
	entries     []*LedgerEntry
	confirmedAt *time.Time
	paidAt      *time.Time

	isConstructed bool
}

// NewSettlement creates a settlement in Pending status from a computed Result
// and the rate snapshot frozen at match time. The net amount starts as
// total - platformFee; deductions move it later, by delta only.
func NewSettlement(
	id, orderID, helperID kernel.UUID,
	rate RateSnapshot,
	result Result,
	platformFee int64,
) (*Settlement, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		helperID.Validate(),
		rate.Validate(),
		result.Validate(),
	); err != nil {
		return nil, err
	}
	if platformFee < 0 || platformFee > result.TotalAmount {
		return nil, errs.NewValueIsOutOfRangeError("platform fee", platformFee, 0, result.TotalAmount)
	}

	return &Settlement{
		id:            id,
		orderID:       orderID,
		helperID:      helperID,
		rate:          rate,
		result:        result,
		platformFee:   platformFee,
		netAmount:     result.TotalAmount - platformFee,
		status:        Pending,
		isConstructed: true,
	}, nil
}

// RestoreSettlement rehydrates a settlement from persistence, including its
// ledger entries and running totals.
func RestoreSettlement(
	id, orderID, helperID kernel.UUID,
	rate RateSnapshot,
	result Result,
	platformFee, deductionTotal, netAmount int64,
	status Status,
	entries []*LedgerEntry,
	confirmedAt, paidAt *time.Time,
) (*Settlement, error) {
	s, err := NewSettlement(id, orderID, helperID, rate, result, platformFee)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	s.deductionTotal = deductionTotal
	s.netAmount = netAmount
	s.status = status
	s.entries = entries
	s.confirmedAt = confirmedAt
	s.paidAt = paidAt
	return s, nil
}

// Validate ensures the settlement was built via a constructor.
func (s *Settlement) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSettlementIsNotConstructed
	}
	return nil
}

// ID returns the settlement's unique identifier.
func (s *Settlement) ID() kernel.UUID {
	return s.id
}

// OrderID returns the owning order.
func (s *Settlement) OrderID() kernel.UUID {
	return s.orderID
}

// HelperID returns the helper this settlement pays out to.
func (s *Settlement) HelperID() kernel.UUID {
	return s.helperID
}

// Rate returns the commission snapshot frozen at match time.
func (s *Settlement) Rate() RateSnapshot {
	return s.rate
}

// Result returns the persisted computed amounts. Consumers must use this
// copy rather than recomputing, so historical deposit rates and rounding
// stay in force.
func (s *Settlement) Result() Result {
	return s.result
}

// PlatformFee returns the platform commission in minor units.
func (s *Settlement) PlatformFee() int64 {
	return s.platformFee
}

// DeductionTotal returns the sum of active ledger entries.
func (s *Settlement) DeductionTotal() int64 {
	return s.deductionTotal
}

// NetAmount returns total - platformFee - deductionTotal.
func (s *Settlement) NetAmount() int64 {
	return s.netAmount
}

// Status returns the settlement's own lifecycle status.
func (s *Settlement) Status() Status {
	return s.status
}

// Entries returns the ledger entries loaded with the aggregate.
func (s *Settlement) Entries() []*LedgerEntry {
	return s.entries
}

// ConfirmedAt returns when the final amount was confirmed, or nil.
func (s *Settlement) ConfirmedAt() *time.Time {
	return s.confirmedAt
}

// PaidAt returns when the payout was made, or nil.
func (s *Settlement) PaidAt() *time.Time {
	return s.paidAt
}

// ActiveEntry returns the active ledger entry for the given source tuple,
// or nil if none exists.
func (s *Settlement) ActiveEntry(sourceType SourceType, sourceID string) *LedgerEntry {
	for _, entry := range s.entries {
		if entry.SourceType() == sourceType && entry.SourceID() == sourceID && entry.Active() {
			return entry
		}
	}
	return nil
}

// ApplyDeduction applies a deduction to the settlement. If an active entry
// with the same (sourceType, sourceID) already exists the call is an
// idempotent no-op: the existing entry is returned with applied=false and
// nothing changes, which makes retried dispute/incident handlers safe.
//
// On a fresh application the new entry is appended and deductionTotal and
// netAmount move by exactly the entry amount.
func (s *Settlement) ApplyDeduction(
	entryID kernel.UUID,
	sourceType SourceType,
	sourceID string,
	amount int64,
	reason string,
	now time.Time,
) (entry *LedgerEntry, applied bool, err error) {
	if err = s.Validate(); err != nil {
		return nil, false, err
	}
	if s.status == Paid {
		return nil, false, ErrSettlementAlreadyPaid
	}

	if existing := s.ActiveEntry(sourceType, sourceID); existing != nil {
		return existing, false, nil
	}

	entry, err = NewLedgerEntry(entryID, s.id, sourceType, sourceID, amount, reason, now)
	if err != nil {
		return nil, false, err
	}

	s.entries = append(s.entries, entry)
	s.deductionTotal += amount
	s.netAmount -= amount
	return entry, true, nil
}

// ReverseDeduction reverses the active entry for the given source tuple and
// applies the inverse delta, returning deductionTotal and netAmount exactly
// to their pre-apply values. Reversal is rejected once the settlement is paid,
// and reversing a tuple with no active entry is ErrObjectNotFound.
func (s *Settlement) ReverseDeduction(sourceType SourceType, sourceID string, now time.Time) (*LedgerEntry, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.status == Paid {
		return nil, ErrSettlementAlreadyPaid
	}

	entry := s.ActiveEntry(sourceType, sourceID)
	if entry == nil {
		return nil, errs.NewObjectNotFoundError("ledger entry", sourceType.String()+"/"+sourceID)
	}

	if err := entry.Reverse(now); err != nil {
		return nil, err
	}
	s.deductionTotal -= entry.Amount()
	s.netAmount += entry.Amount()
	return entry, nil
}

// Confirm confirms the final amount and stamps confirmedAt.
func (s *Settlement) Confirm(now time.Time) error {
	newStatus, err := s.status.Confirm()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.confirmedAt = &now
	return nil
}

// MarkPayable releases the settlement for payout.
func (s *Settlement) MarkPayable() error {
	newStatus, err := s.status.MarkPayable()
	if err != nil {
		return err
	}
	s.status = newStatus
	return nil
}

// MarkPaid records the payout and freezes the ledger.
func (s *Settlement) MarkPaid(now time.Time) error {
	newStatus, err := s.status.MarkPaid()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.paidAt = &now
	return nil
}

// Hold blocks payout, typically while a dispute is reviewed.
func (s *Settlement) Hold() error {
	newStatus, err := s.status.Hold()
	if err != nil {
		return err
	}
	s.status = newStatus
	return nil
}
