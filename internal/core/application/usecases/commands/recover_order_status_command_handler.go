package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// RecoverOrderStatusCommandHandler handles admin-initiated status rollback.
type RecoverOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewRecoverOrderStatusCommandHandler creates a handler for status recovery.
func NewRecoverOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) RecoverOrderStatusCommandHandler {
	return RecoverOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle rolls the order back to the requested status if the recovery map
// allows it, then publishes the change.
func (h RecoverOrderStatusCommandHandler) Handle(ctx context.Context, cmd RecoverOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := orderAggregate.Status()
	if err = orderAggregate.Recover(cmd.To()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, cmd.To())
	return nil
}
