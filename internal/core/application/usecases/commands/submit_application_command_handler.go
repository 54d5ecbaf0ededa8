package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/application"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// SubmitApplicationCommandHandler handles helper applications. An application
// is accepted only while the order is open; a helper applying twice to the
// same order is answered with the previous result rather than a second row,
// so retried submissions are safe.
type SubmitApplicationCommandHandler struct {
	uowFactory MatchUoWFactory
}

// NewSubmitApplicationCommandHandler creates a handler for helper applications.
func NewSubmitApplicationCommandHandler(uowFactory MatchUoWFactory) SubmitApplicationCommandHandler {
	return SubmitApplicationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the helper's application to the order.
func (h SubmitApplicationCommandHandler) Handle(ctx context.Context, cmd SubmitApplicationCommand) error {
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

	if orderAggregate.Status() != order.Open {
		return order.ErrOrderNotAcceptingApplications
	}

	_, err = uow.ApplicationRepository().GetByOrderAndHelper(ctx, cmd.OrderID(), cmd.HelperID())
	if err == nil {
		// Retried submission: answer the previous result.
		return nil
	}

	var notFound *errs.ObjectNotFoundError
	if !errors.As(err, &notFound) {
		return err
	}

	newApplication, err := application.NewApplication(
		cmd.ApplicationID(), cmd.OrderID(), cmd.HelperID(), cmd.TeamLeaderID(),
	)
	if err != nil {
		return err
	}

	if err = uow.ApplicationRepository().Add(ctx, newApplication); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
