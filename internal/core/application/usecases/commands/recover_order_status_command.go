package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrRecoverOrderStatusCommandIsNotConstructed = errors.New(
	"RecoverOrderStatusCommand must be created via NewRecoverOrderStatusCommand constructor",
)

// RecoverOrderStatusCommand requests an admin rollback of an order to an
// earlier status. Targets come from the curated recovery map, not from the
// forward transition graph.
type RecoverOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status

	guard guard.ConstructorGuard
}

// NewRecoverOrderStatusCommand creates a validated recovery request.
func NewRecoverOrderStatusCommand(orderID kernel.UUID, to order.Status) (RecoverOrderStatusCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RecoverOrderStatusCommand{}, err
	}
	if to.IsUnknown() {
		return RecoverOrderStatusCommand{}, ErrTargetStatusIsUnknown
	}

	return RecoverOrderStatusCommand{
		orderID: orderID,
		to:      to,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecoverOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecoverOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to roll back.
func (c RecoverOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the recovery target status.
func (c RecoverOrderStatusCommand) To() order.Status {
	return c.to
}
