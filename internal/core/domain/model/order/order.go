package order

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrHelperAlreadySelected is the retryable conflict returned when a helper
	// selection races against an already-matched order. The losing caller must
	// re-read the order rather than overwrite the winner.
	ErrHelperAlreadySelected = errors.New("a helper is already selected for this order")

	// ErrHelperNotSelected rejects operations that need a matched helper.
	ErrHelperNotSelected = errors.New("no helper is selected for this order")

	// ErrOrderNotAcceptingApplications rejects helper applications outside
	// the open status.
	ErrOrderNotAcceptingApplications = errors.New("order is not accepting applications")

	// ErrClosingAlreadySubmitted rejects a second closing report. Duplicate
	// submissions are answered at the use-case layer with the existing settlement.
	ErrClosingAlreadySubmitted = errors.New("closing report is already submitted")

	// ErrClosingNotSubmitted rejects corrections and confirmations on orders
	// without a closing report.
	ErrClosingNotSubmitted = errors.New("closing report is not submitted")

	// ErrClosingNotCorrectable rejects admin corrections outside the statuses
	// where the reported amounts are still under review.
	ErrClosingNotCorrectable = errors.New("closing report can no longer be corrected")

	// ErrRecoveryNotAllowed rejects admin rollbacks outside the curated recovery map.
	ErrRecoveryNotAllowed = errors.New("status recovery is not allowed")
)

// Order is the aggregate root of the marketplace order lifecycle. It owns the
// requester, the matched helper, the status, the optional order-level rate
// snapshot frozen at creation, and the closing report once submitted.
//
// Order follows these invariants:
//   - status moves only along the transition graph (self-transitions are no-ops)
//   - a helper is selected at most once
//   - the closing report exists from closing_submitted onward and is immutable
//     outside explicit admin correction
type Order struct {
	id          kernel.UUID
	requesterID kernel.UUID
	helperID    *kernel.UUID
	status      Status
	rate        *settlement.RateSnapshot
	closing     *ClosingData

	isConstructed bool
}

// NewOrder creates an order in awaiting_deposit status. The optional rate is
// the order-level commission snapshot frozen at creation time, covering the
// gap before a helper is chosen; it must carry the order_snapshot source tag.
func NewOrder(id, requesterID kernel.UUID, rate *settlement.RateSnapshot) (*Order, error) {
	if err := errors.Join(id.Validate(), requesterID.Validate()); err != nil {
		return nil, err
	}
	if rate != nil {
		if err := rate.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            id,
		requesterID:   requesterID,
		status:        AwaitingDeposit,
		rate:          rate,
		isConstructed: true,
	}, nil
}

// RestoreOrder rehydrates an order from persistence. The status is accepted
// as stored, including the unknown case, so legacy values survive round-trips.
func RestoreOrder(
	id, requesterID kernel.UUID,
	helperID *kernel.UUID,
	status Status,
	rate *settlement.RateSnapshot,
	closing *ClosingData,
) (*Order, error) {
	o, err := NewOrder(id, requesterID, rate)
	if err != nil {
		return nil, err
	}
	if helperID != nil {
		if err = helperID.Validate(); err != nil {
			return nil, err
		}
	}
	if closing != nil {
		if err = closing.Validate(); err != nil {
			return nil, err
		}
	}

	o.helperID = helperID
	o.status = status
	o.closing = closing
	return o, nil
}

// Validate ensures the order was built via a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// RequesterID returns the requester who posted the order.
func (o *Order) RequesterID() kernel.UUID {
	return o.requesterID
}

// Helper returns the matched helper's ID, or nil before matching.
func (o *Order) Helper() *kernel.UUID {
	return o.helperID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Rate returns the order-level rate snapshot frozen at creation, or nil.
func (o *Order) Rate() *settlement.RateSnapshot {
	return o.rate
}

// Closing returns the submitted closing report, or nil.
func (o *Order) Closing() *ClosingData {
	return o.closing
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ChangeStatus moves the order along the forward transition graph. A request
// for the current status is a valid no-op. Invalid transitions return a
// structured *InvalidTransitionError and leave the order untouched.
func (o *Order) ChangeStatus(to Status) error {
	if err := ValidateTransition(o.status, to); err != nil {
		return err
	}
	o.status = to
	return nil
}

// Recover rolls the order back via the curated recovery map. It deliberately
// refuses targets that would be ordinary forward transitions.
func (o *Order) Recover(to Status) error {
	if !o.status.CanRecoverTo(to) {
		return ErrRecoveryNotAllowed
	}
	o.status = to
	return nil
}

// SelectHelper matches the helper and moves the order open -> scheduled.
// A second selection, by any helper, is ErrHelperAlreadySelected; idempotent
// retries by the winning helper are resolved at the use-case layer.
func (o *Order) SelectHelper(helperID kernel.UUID) error {
	if err := helperID.Validate(); err != nil {
		return err
	}
	if o.helperID != nil {
		return ErrHelperAlreadySelected
	}
	if err := ValidateTransition(o.status, Scheduled); err != nil {
		return err
	}

	o.status = Scheduled
	o.helperID = &helperID
	return nil
}

// SubmitClosing records the helper's closing report and moves the order
// in_progress -> closing_submitted. The report is immutable afterwards
// except through CorrectClosing.
func (o *Order) SubmitClosing(closing ClosingData) error {
	if err := closing.Validate(); err != nil {
		return err
	}
	if o.helperID == nil {
		return ErrHelperNotSelected
	}
	if o.closing != nil {
		return ErrClosingAlreadySubmitted
	}
	if err := ValidateTransition(o.status, ClosingSubmitted); err != nil {
		return err
	}

	o.status = ClosingSubmitted
	o.closing = &closing
	return nil
}

// CorrectClosing replaces the closing report through explicit admin
// correction. Only allowed while the reported amounts are still under review.
func (o *Order) CorrectClosing(closing ClosingData) error {
	if err := closing.Validate(); err != nil {
		return err
	}
	if o.closing == nil {
		return ErrClosingNotSubmitted
	}
	if o.status != ClosingSubmitted && o.status != DisputeReviewing {
		return ErrClosingNotCorrectable
	}

	o.closing = &closing
	return nil
}
