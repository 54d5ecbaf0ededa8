package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"
)

// CreateOrderCommandHandler handles order creation. The global commission
// rate in force right now is frozen onto the order as the order-level
// snapshot, so later policy changes cannot alter this order's economics even
// before a helper is matched.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     ports.PolicyProvider
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, policy ports.PolicyProvider) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle creates the order in awaiting_deposit status.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	globalRate := h.policy.GlobalRate()
	orderRate, err := globalRate.WithSource(settlement.SourceOrderSnapshot)
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.RequesterID(), &orderRate)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
