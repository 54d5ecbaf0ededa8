package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrSubmitClosingReportCommandIsNotConstructed = errors.New(
	"SubmitClosingReportCommand must be created via NewSubmitClosingReportCommand constructor",
)

// SubmitClosingReportCommand requests recording the helper's closing report
// for an in-progress order.
type SubmitClosingReportCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	closing order.ClosingData

	guard guard.ConstructorGuard
}

// NewSubmitClosingReportCommand creates a validated closing submission.
func NewSubmitClosingReportCommand(orderID kernel.UUID, closing order.ClosingData) (SubmitClosingReportCommand, error) {
	if err := errors.Join(orderID.Validate(), closing.Validate()); err != nil {
		return SubmitClosingReportCommand{}, err
	}

	return SubmitClosingReportCommand{
		orderID: orderID,
		closing: closing,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitClosingReportCommand) Validate() error {
	return c.guard.Validate(ErrSubmitClosingReportCommandIsNotConstructed)
}

// OrderID returns the order the report closes.
func (c SubmitClosingReportCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Closing returns the reported quantities and costs.
func (c SubmitClosingReportCommand) Closing() order.ClosingData {
	return c.closing
}
