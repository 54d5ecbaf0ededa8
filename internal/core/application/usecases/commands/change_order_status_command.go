package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
	ErrTargetStatusIsUnknown = errors.New("target status is not a recognized order status")
)

// ChangeOrderStatusCommand requests a generic transition along the forward
// status graph. Transitions with richer semantics (helper selection, closing
// submission, confirmation, payments) have dedicated commands; this one
// covers the rest: deposit confirmation, cancellation, dispute opening,
// closing and settling.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a validated status change request.
// The target must be a canonical status; the unknown case is rejected here,
// before it could ever reach the transition check.
func NewChangeOrderStatusCommand(orderID kernel.UUID, to order.Status) (ChangeOrderStatusCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	if to.IsUnknown() {
		return ChangeOrderStatusCommand{}, ErrTargetStatusIsUnknown
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		to:      to,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the requested target status.
func (c ChangeOrderStatusCommand) To() order.Status {
	return c.to
}
