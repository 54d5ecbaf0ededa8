package settlement

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the settlement's own lifecycle, independent of the order status:
//
//	Pending ──> Confirmed ──> Payable ──> Paid
//	    │           │
//	    └───────────┴──> OnHold ──> Confirmed
//
// Paid is final.
type Status int

const (
	// StatusUnknown catches uninitialized Status values.
	StatusUnknown Status = iota

	// Pending: the settlement exists but its amounts await confirmation.
	Pending

	// Confirmed: the final amount has been confirmed by the requester/admin.
	Confirmed

	// Payable: released for payout to the helper.
	Payable

	// Paid: the payout has been made. Final; the ledger is frozen.
	Paid

	// OnHold: payout blocked, typically while a dispute is reviewed.
	OnHold
)

func statusNames() map[Status]string {
	return map[Status]string{
		Pending:   "pending",
		Confirmed: "confirmed",
		Payable:   "payable",
		Paid:      "paid",
		OnHold:    "on_hold",
	}
}

// String returns the wire name of the status, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames()[s]; ok {
		return name
	}
	return "unknown"
}

// StatusFromString parses a persisted settlement status.
func StatusFromString(raw string) (Status, error) {
	for status, name := range statusNames() {
		if name == raw {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("settlement status",
		fmt.Errorf("%q is not a known settlement status", raw))
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("settlement status",
			fmt.Errorf("%d is not a valid settlement status", s))
	}
	return nil
}

// Confirm transitions Pending (or OnHold, after a dispute releases) to Confirmed.
func (s Status) Confirm() (Status, error) {
	if s != Pending && s != OnHold {
		return 0, errs.NewValueIsInvalidErrorWithCause("settlement status",
			fmt.Errorf("%s cannot be confirmed", s))
	}
	return Confirmed, nil
}

// MarkPayable transitions Confirmed to Payable.
func (s Status) MarkPayable() (Status, error) {
	if s != Confirmed {
		return 0, errs.NewValueIsInvalidErrorWithCause("settlement status",
			fmt.Errorf("%s cannot become payable", s))
	}
	return Payable, nil
}

// MarkPaid transitions Payable to Paid.
func (s Status) MarkPaid() (Status, error) {
	if s != Payable {
		return 0, errs.NewValueIsInvalidErrorWithCause("settlement status",
			fmt.Errorf("%s cannot be paid", s))
	}
	return Paid, nil
}

// Hold blocks payout for any not-yet-paid settlement.
func (s Status) Hold() (Status, error) {
	if s == Paid {
		return 0, errs.NewValueIsInvalidErrorWithCause("settlement status",
			fmt.Errorf("%s cannot be put on hold", s))
	}
	return OnHold, nil
}
