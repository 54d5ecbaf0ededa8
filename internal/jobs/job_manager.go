// Package jobs provides the scheduled background tasks of the marketplace
// service, built on github.com/robfig/cron/v3.
package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	payableSweepJob *PayableSweepJob
	sweepSpec       string
}

// NewJobManager creates a job manager wiring the payable sweep to its
// command handler.
func NewJobManager(
	markPayableHandler commands.MarkSettlementsPayableCommandHandler,
	sweepSpec string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		payableSweepJob: NewPayableSweepJob(markPayableHandler, logger),
		sweepSpec:       sweepSpec,
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.payableSweepJob.Start(jm.sweepSpec); err != nil {
		return fmt.Errorf("failed to start payable sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.payableSweepJob.Stop()
}
