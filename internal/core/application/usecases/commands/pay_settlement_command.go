package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPaySettlementCommandIsNotConstructed = errors.New(
	"PaySettlementCommand must be created via NewPaySettlementCommand constructor",
)

// PaySettlementCommand requests recording the helper payout.
type PaySettlementCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewPaySettlementCommand creates a validated payout request.
func NewPaySettlementCommand(orderID kernel.UUID, actor, idempotencyKey string) (PaySettlementCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PaySettlementCommand{}, err
	}
	if actor == "" {
		return PaySettlementCommand{}, errs.NewValueIsRequiredError("actor")
	}
	if idempotencyKey == "" {
		return PaySettlementCommand{}, errs.NewValueIsRequiredError("idempotency key")
	}

	return PaySettlementCommand{
		orderID:        orderID,
		actor:          actor,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PaySettlementCommand) Validate() error {
	return c.guard.Validate(ErrPaySettlementCommandIsNotConstructed)
}

// OrderID returns the order whose settlement is being paid out.
func (c PaySettlementCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the caller identity scoping the idempotency key.
func (c PaySettlementCommand) Actor() string {
	return c.actor
}

// IdempotencyKey returns the caller-supplied deduplication token.
func (c PaySettlementCommand) IdempotencyKey() string {
	return c.idempotencyKey
}
