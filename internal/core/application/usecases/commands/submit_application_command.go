package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSubmitApplicationCommandIsNotConstructed = errors.New(
	"SubmitApplicationCommand must be created via NewSubmitApplicationCommand constructor",
)

// SubmitApplicationCommand represents a helper applying to an open order.
// The team leader is optional: helpers working under a leader name them so
// the leader's rate overrides and share apply at selection time.
type SubmitApplicationCommand struct { //nolint:recvcheck //using for validation
	applicationID kernel.UUID
	orderID       kernel.UUID
	helperID      kernel.UUID
	teamLeaderID  *kernel.UUID

	guard guard.ConstructorGuard
}

// NewSubmitApplicationCommand creates a command for a helper applying to an order.
func NewSubmitApplicationCommand(
	applicationID, orderID, helperID kernel.UUID,
	teamLeaderID *kernel.UUID,
) (SubmitApplicationCommand, error) {
	cmd := SubmitApplicationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setApplicationID(applicationID),
		cmd.setOrderID(orderID),
		cmd.setHelperID(helperID),
		cmd.setTeamLeaderID(teamLeaderID),
	); err != nil {
		return SubmitApplicationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitApplicationCommand) Validate() error {
	return c.guard.Validate(ErrSubmitApplicationCommandIsNotConstructed)
}

// ApplicationID returns the unique identifier for the new application.
func (c SubmitApplicationCommand) ApplicationID() kernel.UUID {
	return c.applicationID
}

// OrderID returns the order the helper is applying to.
func (c SubmitApplicationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// HelperID returns the applying helper.
func (c SubmitApplicationCommand) HelperID() kernel.UUID {
	return c.helperID
}

// TeamLeaderID returns the helper's team leader, if any.
func (c SubmitApplicationCommand) TeamLeaderID() *kernel.UUID {
	return c.teamLeaderID
}

func (c *SubmitApplicationCommand) setApplicationID(applicationID kernel.UUID) error {
	if err := applicationID.Validate(); err != nil {
		return err
	}
	c.applicationID = applicationID
	return nil
}

func (c *SubmitApplicationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *SubmitApplicationCommand) setHelperID(helperID kernel.UUID) error {
	if err := helperID.Validate(); err != nil {
		return err
	}
	c.helperID = helperID
	return nil
}

func (c *SubmitApplicationCommand) setTeamLeaderID(teamLeaderID *kernel.UUID) error {
	if teamLeaderID == nil {
		return nil
	}
	if err := teamLeaderID.Validate(); err != nil {
		return err
	}
	c.teamLeaderID = teamLeaderID
	return nil
}
