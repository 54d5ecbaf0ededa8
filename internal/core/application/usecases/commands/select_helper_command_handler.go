package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// SelectHelperCommandHandler handles helper selection. The helper's effective
// commission rate is resolved once, frozen onto the winning application, and
// the order moves open -> scheduled, all in one transaction.
//
// Two properties matter here. Selection is first-writer-wins: the order row
// is updated only while it has no helper, so of two concurrent selections
// exactly one commits and the loser gets order.ErrHelperAlreadySelected.
// And selection is idempotent for the winner: a retry naming the helper that
// already holds the order succeeds without touching anything.
type SelectHelperCommandHandler struct {
	uowFactory MatchUoWFactory
	policy     ports.PolicyProvider
	resolver   services.RateResolver
	publisher  ports.EventPublisher
}

// NewSelectHelperCommandHandler creates a handler for helper selection.
func NewSelectHelperCommandHandler(
	uowFactory MatchUoWFactory,
	policy ports.PolicyProvider,
	resolver services.RateResolver,
	publisher ports.EventPublisher,
) SelectHelperCommandHandler {
	return SelectHelperCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		resolver:   resolver,
		publisher:  publisher,
	}
}

// Handle matches the helper to the order.
func (h SelectHelperCommandHandler) Handle(ctx context.Context, cmd SelectHelperCommand) error {
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

	if helper := orderAggregate.Helper(); helper != nil {
		if helper.IsEqual(cmd.HelperID()) {
			// Retried selection by the winner: answer the previous result.
			return nil
		}
		return order.ErrHelperAlreadySelected
	}

	applicationAggregate, err := uow.ApplicationRepository().GetByOrderAndHelper(ctx, cmd.OrderID(), cmd.HelperID())
	if err != nil {
		return err
	}

	effective := h.policy.EffectiveRate(cmd.HelperID(), applicationAggregate.TeamLeader())
	rate, err := h.resolver.Resolve(applicationAggregate, orderAggregate, effective)
	if err != nil {
		return err
	}

	from := orderAggregate.Status()
	if err = orderAggregate.SelectHelper(cmd.HelperID()); err != nil {
		return err
	}
	if err = applicationAggregate.Select(rate); err != nil {
		return err
	}

	// Conditional write: a concurrent selection that committed after our read
	// leaves the row assigned and this update touches nothing, surfacing the
	// race as a retryable conflict instead of silently overwriting the winner.
	if err = uow.OrderRepository().UpdateIfUnassigned(ctx, orderAggregate); err != nil {
		return err
	}
	if err = uow.ApplicationRepository().Update(ctx, applicationAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishOrderStatusChanged(ctx, cmd.OrderID(), from, order.Scheduled)
	return nil
}
