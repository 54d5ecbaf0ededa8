package order

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// statusCode enumerates the closed set of canonical order statuses.
// The zero value is reserved for unrecognized input.
type statusCode int

const (
	statusUnknown statusCode = iota
	statusAwaitingDeposit
	statusOpen
	statusScheduled
	statusInProgress
	statusClosingSubmitted
	statusFinalAmountConfirmed
	statusBalancePaid
	statusSettlementPaid
	statusClosed
	statusCancelled
	statusDisputeReviewing
	statusDisputeResolved
	statusDisputeRejected
	statusSettled
)

// Status is the lifecycle state of an order. It is a tagged value object:
// every canonical status compares equal to its predeclared variable below,
// and input that cannot be normalized is carried as an explicit unknown case
// that preserves the raw string instead of silently masquerading as a valid
// enumerator. Downstream code must branch on IsUnknown rather than assume
// every Status participates in the transition graph.
type Status struct {
	code statusCode
	raw  string
}

// Canonical statuses. closed and cancelled are terminal.
var (
	AwaitingDeposit      = Status{code: statusAwaitingDeposit}
	Open                 = Status{code: statusOpen}
	Scheduled            = Status{code: statusScheduled}
	InProgress           = Status{code: statusInProgress}
	ClosingSubmitted     = Status{code: statusClosingSubmitted}
	FinalAmountConfirmed = Status{code: statusFinalAmountConfirmed}
	BalancePaid          = Status{code: statusBalancePaid}
	SettlementPaid       = Status{code: statusSettlementPaid}
	Closed               = Status{code: statusClosed}
	Cancelled            = Status{code: statusCancelled}
	DisputeReviewing     = Status{code: statusDisputeReviewing}
	DisputeResolved      = Status{code: statusDisputeResolved}
	DisputeRejected      = Status{code: statusDisputeRejected}
	Settled              = Status{code: statusSettled}
)

// ErrInvalidTransition is the unwrap target for InvalidTransitionError,
// so callers can classify rejections with errors.Is.
var ErrInvalidTransition = errors.New("invalid status transition")

// statusNames maps canonical codes to their wire representation.
func statusNames() map[statusCode]string {
	return map[statusCode]string{
		statusAwaitingDeposit:      "awaiting_deposit",
		statusOpen:                 "open",
		statusScheduled:            "scheduled",
		statusInProgress:           "in_progress",
		statusClosingSubmitted:     "closing_submitted",
		statusFinalAmountConfirmed: "final_amount_confirmed",
		statusBalancePaid:          "balance_paid",
		statusSettlementPaid:       "settlement_paid",
		statusClosed:               "closed",
		statusCancelled:            "cancelled",
		statusDisputeReviewing:     "dispute_reviewing",
		statusDisputeResolved:      "dispute_resolved",
		statusDisputeRejected:      "dispute_rejected",
		statusSettled:              "settled",
	}
}

// legacyAliases maps status strings still present in upstream data to their
// canonical values. Extend here when another legacy value surfaces; never
// remove an alias while any stored order may still carry it.
func legacyAliases() map[string]statusCode {
	return map[string]statusCode{
		"waiting_deposit":  statusAwaitingDeposit,
		"deposit_pending":  statusAwaitingDeposit,
		"recruiting":       statusOpen,
		"matching":         statusOpen,
		"matched":          statusScheduled,
		"working":          statusInProgress,
		"in_delivery":      statusInProgress,
		"report_submitted": statusClosingSubmitted,
		"amount_confirmed": statusFinalAmountConfirmed,
		"remainder_paid":   statusBalancePaid,
		"payout_done":      statusSettlementPaid,
		"done":             statusClosed,
		"complete":         statusClosed,
		"canceled":         statusCancelled,
		"dispute_open":     statusDisputeReviewing,
	}
}

// transitions is the directed forward graph. A status missing from the map,
// or present with an empty list, allows no transition other than to itself.
func transitions() map[statusCode][]statusCode {
	return map[statusCode][]statusCode{
		statusAwaitingDeposit:      {statusOpen, statusCancelled},
		statusOpen:                 {statusScheduled, statusCancelled},
		statusScheduled:            {statusInProgress, statusOpen, statusCancelled},
		statusInProgress:           {statusClosingSubmitted, statusScheduled},
		statusClosingSubmitted:     {statusFinalAmountConfirmed, statusInProgress, statusDisputeReviewing},
		statusFinalAmountConfirmed: {statusBalancePaid, statusClosingSubmitted, statusDisputeReviewing},
		statusBalancePaid:          {statusSettlementPaid, statusFinalAmountConfirmed, statusDisputeReviewing},
		statusSettlementPaid:       {statusClosed, statusSettled},
		statusDisputeReviewing:     {statusDisputeResolved, statusDisputeRejected},
		statusDisputeResolved:      {statusFinalAmountConfirmed, statusBalancePaid, statusSettlementPaid, statusClosed},
		statusDisputeRejected:      {statusFinalAmountConfirmed, statusBalancePaid, statusSettlementPaid, statusClosed},
		statusSettled:              {statusClosed},
	}
}

// recoveryOptions is the hand-curated rollback map for admin-initiated
// recovery. It is intentionally narrower than the transition graph so that
// forward transitions cannot be abused as "recovery".
func recoveryOptions() map[statusCode][]statusCode {
	return map[statusCode][]statusCode{
		statusScheduled:            {statusOpen},
		statusInProgress:           {statusScheduled},
		statusClosingSubmitted:     {statusInProgress},
		statusFinalAmountConfirmed: {statusClosingSubmitted},
		statusBalancePaid:          {statusFinalAmountConfirmed},
		statusSettlementPaid:       {statusBalancePaid},
	}
}

// UnknownStatus creates the explicit unknown case carrying the raw input.
// The raw string survives a round-trip through storage unchanged.
func UnknownStatus(raw string) Status {
	return Status{raw: raw}
}

// Normalize maps a raw status string to its canonical Status. Known legacy
// aliases are rewritten to current values. Unrecognized input is logged and
// carried through as UnknownStatus rather than rejected, because upstream
// data may still contain values this service has never seen.
func Normalize(raw string) Status {
	name := strings.ToLower(strings.TrimSpace(raw))

	for code, s := range statusNames() {
		if s == name {
			return Status{code: code}
		}
	}

	if code, ok := legacyAliases()[name]; ok {
		return Status{code: code}
	}

	slog.Warn("unrecognized order status passed through", "raw", raw)
	return UnknownStatus(raw)
}

// String returns the canonical wire name, or the preserved raw input for the
// unknown case. Implements fmt.Stringer.
func (s Status) String() string {
	if name, ok := statusNames()[s.code]; ok {
		return name
	}
	return s.raw
}

// IsUnknown reports whether this Status is the explicit unknown case.
func (s Status) IsUnknown() bool {
	return s.code == statusUnknown
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s.code == statusClosed || s.code == statusCancelled
}

// Validate rejects the unknown case. Canonical statuses are always valid.
func (s Status) Validate() error {
	if s.IsUnknown() {
		return fmt.Errorf("%w: %q is not a recognized order status", ErrInvalidTransition, s.raw)
	}
	return nil
}

// CanTransitionTo reports whether the forward graph allows moving to the
// given status. A transition to the same state is always allowed as a no-op,
// including for the unknown case when the raw values match. The unknown case
// participates in no other transition.
func (s Status) CanTransitionTo(to Status) bool {
	if s == to {
		return true
	}
	if s.IsUnknown() || to.IsUnknown() {
		return false
	}

	for _, next := range transitions()[s.code] {
		if next == to.code {
			return true
		}
	}
	return false
}

// NextValidStatuses returns the statuses reachable from the current one via
// the forward graph, excluding the implicit self-transition. Terminal and
// unknown statuses return an empty slice.
func (s Status) NextValidStatuses() []Status {
	codes := transitions()[s.code]
	next := make([]Status, 0, len(codes))
	for _, code := range codes {
		next = append(next, Status{code: code})
	}
	return next
}

// RecoveryOptions returns the admin rollback targets for the current status.
// The result is empty for statuses with no curated recovery path.
func (s Status) RecoveryOptions() []Status {
	codes := recoveryOptions()[s.code]
	options := make([]Status, 0, len(codes))
	for _, code := range codes {
		options = append(options, Status{code: code})
	}
	return options
}

// CanRecoverTo reports whether the curated recovery map permits rolling back
// to the given status.
func (s Status) CanRecoverTo(to Status) bool {
	for _, option := range s.RecoveryOptions() {
		if option == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError describes a rejected transition: the current status,
// the requested target, and the statuses that would have been allowed. It is
// returned before any write happens, never panicked.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, s.String())
	}
	return fmt.Sprintf("invalid status transition: %s -> %s (allowed: %s)",
		e.From, e.To, strings.Join(allowed, ", "))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidateTransition checks a requested transition against the forward graph.
// It returns nil for allowed transitions (including the always-valid
// self-transition) and a structured *InvalidTransitionError otherwise.
// Callers must check the result before mutating storage.
func ValidateTransition(from, to Status) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	return &InvalidTransitionError{
		From:    from,
		To:      to,
		Allowed: from.NextValidStatuses(),
	}
}
