package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrResolveDisputeCommandIsNotConstructed = errors.New(
	"ResolveDisputeCommand must be created via NewResolveDisputeCommand constructor",
)

// ResolveDisputeCommand requests closing a dispute review. A resolution in
// the requester's favor may carry a deduction charged against the helper's
// settlement; a rejected dispute never does.
type ResolveDisputeCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	disputeID       string
	resolved        bool
	deductionAmount int64
	deductionReason string
	actor           string
	idempotencyKey  string

	guard guard.ConstructorGuard
}

// NewResolveDisputeCommand creates a validated dispute resolution request.
// deductionAmount zero means the resolution carries no charge.
func NewResolveDisputeCommand(
	orderID kernel.UUID,
	disputeID string,
	resolved bool,
	deductionAmount int64,
	deductionReason string,
	actor, idempotencyKey string,
) (ResolveDisputeCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ResolveDisputeCommand{}, err
	}
	if disputeID == "" {
		return ResolveDisputeCommand{}, errs.NewValueIsRequiredError("dispute id")
	}
	if deductionAmount < 0 {
		return ResolveDisputeCommand{}, errs.NewValueIsInvalidErrorWithCause("deduction amount",
			fmt.Errorf("%d is negative", deductionAmount))
	}
	if deductionAmount > 0 && !resolved {
		return ResolveDisputeCommand{}, errs.NewValueIsInvalidErrorWithCause("deduction amount",
			errors.New("a rejected dispute cannot charge a deduction"))
	}
	if deductionAmount > 0 && deductionReason == "" {
		return ResolveDisputeCommand{}, errs.NewValueIsRequiredError("deduction reason")
	}
	if actor == "" {
		return ResolveDisputeCommand{}, errs.NewValueIsRequiredError("actor")
	}
	if idempotencyKey == "" {
		return ResolveDisputeCommand{}, errs.NewValueIsRequiredError("idempotency key")
	}

	return ResolveDisputeCommand{
		orderID:         orderID,
		disputeID:       disputeID,
		resolved:        resolved,
		deductionAmount: deductionAmount,
		deductionReason: deductionReason,
		actor:           actor,
		idempotencyKey:  idempotencyKey,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveDisputeCommand) Validate() error {
	return c.guard.Validate(ErrResolveDisputeCommandIsNotConstructed)
}

// OrderID returns the disputed order.
func (c ResolveDisputeCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DisputeID returns the external dispute record identifier. It doubles as
// the ledger source id when the resolution charges a deduction.
func (c ResolveDisputeCommand) DisputeID() string {
	return c.disputeID
}

// Resolved reports whether the dispute was upheld.
func (c ResolveDisputeCommand) Resolved() bool {
	return c.resolved
}

// DeductionAmount returns the charge carried by the resolution, zero for
// none.
func (c ResolveDisputeCommand) DeductionAmount() int64 {
	return c.deductionAmount
}

// DeductionReason returns the justification for the charge.
func (c ResolveDisputeCommand) DeductionReason() string {
	return c.deductionReason
}

// Actor returns the caller identity scoping the idempotency key.
func (c ResolveDisputeCommand) Actor() string {
	return c.actor
}

// IdempotencyKey returns the caller-supplied deduplication token.
func (c ResolveDisputeCommand) IdempotencyKey() string {
	return c.idempotencyKey
}
