package settlement

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	ErrLedgerEntryIsNotConstructed = errors.New(
		"LedgerEntry must be created via NewLedgerEntry constructor",
	)
	ErrLedgerEntryAlreadyReversed = errors.New("ledger entry is already reversed")
	ErrDeductionReasonIsRequired  = errors.New("deduction reason is required")
)

// SourceType identifies the kind of post-hoc adjustment behind a ledger entry.
type SourceType int

const (
	// SourceTypeUnknown catches uninitialized SourceType values.
	SourceTypeUnknown SourceType = iota

	// SourceIncident: damage or loss reported against the delivery.
	SourceIncident

	// SourceAdminAdjustment: a manual correction entered by an operator.
	SourceAdminAdjustment

	// SourceDispute: the monetary outcome of a resolved dispute.
	SourceDispute
)

func sourceTypeNames() map[SourceType]string {
	return map[SourceType]string{
		SourceIncident:        "incident",
		SourceAdminAdjustment: "admin_adjustment",
		SourceDispute:         "dispute",
	}
}

// String returns the wire name of the source type, or "unknown".
func (t SourceType) String() string {
	if name, ok := sourceTypeNames()[t]; ok {
		return name
	}
	return "unknown"
}

// SourceTypeFromString parses a persisted source type.
func SourceTypeFromString(raw string) (SourceType, error) {
	for sourceType, name := range sourceTypeNames() {
		if name == raw {
			return sourceType, nil
		}
	}
	return SourceTypeUnknown, errs.NewValueIsInvalidErrorWithCause("deduction source type",
		fmt.Errorf("%q is not a known deduction source type", raw))
}

// Validate rejects unrecognized source types.
func (t SourceType) Validate() error {
	if _, ok := sourceTypeNames()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("deduction source type",
			fmt.Errorf("%d is not a valid deduction source type", t))
	}
	return nil
}

// LedgerEntry is one applied (and possibly later reversed) deduction against
// a settlement's net amount. Entries are append-only: a correction is a new
// entry or a reversal, never an in-place edit.
//
// The (settlementID, sourceType, sourceID) tuple is the idempotency identity:
// the Settlement aggregate guarantees at most one active entry per tuple.
type LedgerEntry struct {
	id           kernel.UUID
	settlementID kernel.UUID
	sourceType   SourceType
	sourceID     string
	amount       int64
	reason       string
	appliedAt    time.Time
	reversedAt   *time.Time

	isConstructed bool
}

// NewLedgerEntry creates a new active deduction entry. The amount must be
// positive; zero-amount deductions are meaningless and rejected.
func NewLedgerEntry(
	id, settlementID kernel.UUID,
	sourceType SourceType,
	sourceID string,
	amount int64,
	reason string,
	appliedAt time.Time,
) (*LedgerEntry, error) {
	if err := errors.Join(id.Validate(), settlementID.Validate(), sourceType.Validate()); err != nil {
		return nil, err
	}
	if sourceID == "" {
		return nil, errs.NewValueIsRequiredError("deduction source id")
	}
	if amount <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("deduction amount",
			fmt.Errorf("%d is not greater than 0", amount))
	}
	if reason == "" {
		return nil, ErrDeductionReasonIsRequired
	}

	return &LedgerEntry{
		id:            id,
		settlementID:  settlementID,
		sourceType:    sourceType,
		sourceID:      sourceID,
		amount:        amount,
		reason:        reason,
		appliedAt:     appliedAt,
		isConstructed: true,
	}, nil
}

// RestoreLedgerEntry rehydrates an entry from persistence.
func RestoreLedgerEntry(
	id, settlementID kernel.UUID,
	sourceType SourceType,
	sourceID string,
	amount int64,
	reason string,
	appliedAt time.Time,
	reversedAt *time.Time,
) (*LedgerEntry, error) {
	entry, err := NewLedgerEntry(id, settlementID, sourceType, sourceID, amount, reason, appliedAt)
	if err != nil {
		return nil, err
	}
	entry.reversedAt = reversedAt
	return entry, nil
}

// Validate ensures the entry was built via a constructor.
func (e *LedgerEntry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrLedgerEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *LedgerEntry) ID() kernel.UUID {
	return e.id
}

// SettlementID returns the owning settlement.
func (e *LedgerEntry) SettlementID() kernel.UUID {
	return e.settlementID
}

// SourceType returns the kind of adjustment.
func (e *LedgerEntry) SourceType() SourceType {
	return e.sourceType
}

// SourceID returns the external reference of the adjustment source
// (incident id, admin ticket, dispute id).
func (e *LedgerEntry) SourceID() string {
	return e.sourceID
}

// Amount returns the deducted amount in minor units. Always positive.
func (e *LedgerEntry) Amount() int64 {
	return e.amount
}

// Reason returns the operator- or system-supplied explanation.
func (e *LedgerEntry) Reason() string {
	return e.reason
}

// AppliedAt returns when the deduction was applied.
func (e *LedgerEntry) AppliedAt() time.Time {
	return e.appliedAt
}

// ReversedAt returns when the entry was reversed, or nil while active.
func (e *LedgerEntry) ReversedAt() *time.Time {
	return e.reversedAt
}

// Active reports whether the entry still counts toward the deduction total.
func (e *LedgerEntry) Active() bool {
	return e.reversedAt == nil
}

// Reverse marks the entry reversed. Reversing twice is an error; the caller
// decides whether that is a retry to tolerate or a bug to surface.
func (e *LedgerEntry) Reverse(at time.Time) error {
	if e.reversedAt != nil {
		return ErrLedgerEntryAlreadyReversed
	}
	e.reversedAt = &at
	return nil
}
