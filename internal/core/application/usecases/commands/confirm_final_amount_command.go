package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrConfirmFinalAmountCommandIsNotConstructed = errors.New(
	"ConfirmFinalAmountCommand must be created via NewConfirmFinalAmountCommand constructor",
)

// ConfirmFinalAmountCommand requests locking in the reviewed closing report
// as the final billable amount. The caller supplies an idempotency key so a
// retried confirmation is answered instead of re-executed.
type ConfirmFinalAmountCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewConfirmFinalAmountCommand creates a validated confirmation request.
func NewConfirmFinalAmountCommand(orderID kernel.UUID, actor, idempotencyKey string) (ConfirmFinalAmountCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmFinalAmountCommand{}, err
	}
	if actor == "" {
		return ConfirmFinalAmountCommand{}, errs.NewValueIsRequiredError("actor")
	}
	if idempotencyKey == "" {
		return ConfirmFinalAmountCommand{}, errs.NewValueIsRequiredError("idempotency key")
	}

	return ConfirmFinalAmountCommand{
		orderID:        orderID,
		actor:          actor,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmFinalAmountCommand) Validate() error {
	return c.guard.Validate(ErrConfirmFinalAmountCommandIsNotConstructed)
}

// OrderID returns the order being confirmed.
func (c ConfirmFinalAmountCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the caller identity scoping the idempotency key.
func (c ConfirmFinalAmountCommand) Actor() string {
	return c.actor
}

// IdempotencyKey returns the caller-supplied deduplication token.
func (c ConfirmFinalAmountCommand) IdempotencyKey() string {
	return c.idempotencyKey
}
