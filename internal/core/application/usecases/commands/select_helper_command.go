package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSelectHelperCommandIsNotConstructed = errors.New(
	"SelectHelperCommand must be created via NewSelectHelperCommand constructor",
)

// SelectHelperCommand requests matching a helper to an open order.
type SelectHelperCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	helperID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSelectHelperCommand creates a validated helper selection request.
func NewSelectHelperCommand(orderID, helperID kernel.UUID) (SelectHelperCommand, error) {
	if err := errors.Join(orderID.Validate(), helperID.Validate()); err != nil {
		return SelectHelperCommand{}, err
	}

	return SelectHelperCommand{
		orderID:  orderID,
		helperID: helperID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SelectHelperCommand) Validate() error {
	return c.guard.Validate(ErrSelectHelperCommandIsNotConstructed)
}

// OrderID returns the order being matched.
func (c SelectHelperCommand) OrderID() kernel.UUID {
	return c.orderID
}

// HelperID returns the helper being selected.
func (c SelectHelperCommand) HelperID() kernel.UUID {
	return c.helperID
}
