package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPayBalanceCommandIsNotConstructed = errors.New(
	"PayBalanceCommand must be created via NewPayBalanceCommand constructor",
)

// PayBalanceCommand requests recording the requester's balance payment.
type PayBalanceCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewPayBalanceCommand creates a validated balance payment request.
func NewPayBalanceCommand(orderID kernel.UUID, actor, idempotencyKey string) (PayBalanceCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PayBalanceCommand{}, err
	}
	if actor == "" {
		return PayBalanceCommand{}, errs.NewValueIsRequiredError("actor")
	}
	if idempotencyKey == "" {
		return PayBalanceCommand{}, errs.NewValueIsRequiredError("idempotency key")
	}

	return PayBalanceCommand{
		orderID:        orderID,
		actor:          actor,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PayBalanceCommand) Validate() error {
	return c.guard.Validate(ErrPayBalanceCommandIsNotConstructed)
}

// OrderID returns the order being paid.
func (c PayBalanceCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the caller identity scoping the idempotency key.
func (c PayBalanceCommand) Actor() string {
	return c.actor
}

// IdempotencyKey returns the caller-supplied deduplication token.
func (c PayBalanceCommand) IdempotencyKey() string {
	return c.idempotencyKey
}
