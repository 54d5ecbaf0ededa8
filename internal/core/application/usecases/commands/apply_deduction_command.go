package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrApplyDeductionCommandIsNotConstructed = errors.New(
	"ApplyDeductionCommand must be created via NewApplyDeductionCommand constructor",
)

// ApplyDeductionCommand requests charging a deduction against a settlement,
// identified by the external source record that caused it.
type ApplyDeductionCommand struct { //nolint:recvcheck //using for validation
	settlementID kernel.UUID
	sourceType   settlement.SourceType
	sourceID     string
	amount       int64
	reason       string

	guard guard.ConstructorGuard
}

// NewApplyDeductionCommand creates a validated deduction request.
func NewApplyDeductionCommand(
	settlementID kernel.UUID,
	sourceType settlement.SourceType,
	sourceID string,
	amount int64,
	reason string,
) (ApplyDeductionCommand, error) {
	if err := errors.Join(settlementID.Validate(), sourceType.Validate()); err != nil {
		return ApplyDeductionCommand{}, err
	}
	if sourceID == "" {
		return ApplyDeductionCommand{}, errs.NewValueIsRequiredError("deduction source id")
	}
	if amount <= 0 {
		return ApplyDeductionCommand{}, errs.NewValueIsInvalidErrorWithCause("deduction amount",
			fmt.Errorf("%d is not greater than 0", amount))
	}
	if reason == "" {
		return ApplyDeductionCommand{}, errs.NewValueIsRequiredError("deduction reason")
	}

	return ApplyDeductionCommand{
		settlementID: settlementID,
		sourceType:   sourceType,
		sourceID:     sourceID,
		amount:       amount,
		reason:       reason,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyDeductionCommand) Validate() error {
	return c.guard.Validate(ErrApplyDeductionCommandIsNotConstructed)
}

// SettlementID returns the settlement being charged.
func (c ApplyDeductionCommand) SettlementID() kernel.UUID {
	return c.settlementID
}

// SourceType returns the kind of record that caused the deduction.
func (c ApplyDeductionCommand) SourceType() settlement.SourceType {
	return c.sourceType
}

// SourceID returns the external identifier of the causing record.
func (c ApplyDeductionCommand) SourceID() string {
	return c.sourceID
}

// Amount returns the deduction amount in minor units.
func (c ApplyDeductionCommand) Amount() int64 {
	return c.amount
}

// Reason returns the human-readable justification.
func (c ApplyDeductionCommand) Reason() string {
	return c.reason
}
