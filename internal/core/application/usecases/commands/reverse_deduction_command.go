package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReverseDeductionCommandIsNotConstructed = errors.New(
	"ReverseDeductionCommand must be created via NewReverseDeductionCommand constructor",
)

// ReverseDeductionCommand requests undoing a previously applied deduction,
// identified by the same source tuple that applied it.
type ReverseDeductionCommand struct { //nolint:recvcheck //using for validation
	settlementID kernel.UUID
	sourceType   settlement.SourceType
	sourceID     string

	guard guard.ConstructorGuard
}

// NewReverseDeductionCommand creates a validated reversal request.
func NewReverseDeductionCommand(
	settlementID kernel.UUID,
	sourceType settlement.SourceType,
	sourceID string,
) (ReverseDeductionCommand, error) {
	if err := errors.Join(settlementID.Validate(), sourceType.Validate()); err != nil {
		return ReverseDeductionCommand{}, err
	}
	if sourceID == "" {
		return ReverseDeductionCommand{}, errs.NewValueIsRequiredError("deduction source id")
	}

	return ReverseDeductionCommand{
		settlementID: settlementID,
		sourceType:   sourceType,
		sourceID:     sourceID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReverseDeductionCommand) Validate() error {
	return c.guard.Validate(ErrReverseDeductionCommandIsNotConstructed)
}

// SettlementID returns the settlement whose entry is being reversed.
func (c ReverseDeductionCommand) SettlementID() kernel.UUID {
	return c.settlementID
}

// SourceType returns the kind of record that caused the deduction.
func (c ReverseDeductionCommand) SourceType() settlement.SourceType {
	return c.sourceType
}

// SourceID returns the external identifier of the causing record.
func (c ReverseDeductionCommand) SourceID() string {
	return c.sourceID
}
