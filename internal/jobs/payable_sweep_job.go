package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PayableSweepJob periodically releases confirmed settlements whose orders
// have received the balance payment. Payouts are batched, not triggered
// inline by the payment, so a payout backlog never slows the payment path.
type PayableSweepJob struct {
	handler commands.MarkSettlementsPayableCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPayableSweepJob creates the sweep job.
func NewPayableSweepJob(
	handler commands.MarkSettlementsPayableCommandHandler,
	logger *slog.Logger,
) *PayableSweepJob {
	return &PayableSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "payable_sweep_job"),
	}
}

// Start schedules the sweep on the given cron spec with seconds, for
// example "0 * * * * *" for once a minute.
func (j *PayableSweepJob) Start(spec string) error {
	_, err := j.cron.AddFunc(spec, func() {
		ctx := context.Background()

		released, err := j.handler.Handle(ctx)
		if err != nil {
			j.logger.ErrorContext(ctx, "payable sweep failed", "error", err)
			return
		}
		if released > 0 {
			j.logger.InfoContext(ctx, "payable sweep released settlements", "count", released)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "payable sweep job started", "spec", spec)
	return nil
}

// Stop stops the sweep. Already-running invocations finish.
func (j *PayableSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "payable sweep job stopped")
}
