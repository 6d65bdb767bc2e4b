package jobs

import (
	"fmt"
	"log/slog"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"
)

// Schedules holds the cron specs of the jobs. Empty fields use the defaults.
type Schedules struct {
	OfferCascade   string
	Reconciliation string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	offerCascadeJob        *OfferCascadeJob
	reconciliationSweepJob *ReconciliationSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	advanceOfferHandler commands.AdvanceOfferCommandHandler,
	releaseStuckHandler *commands.ReleaseStuckMissionsCommandHandler,
	offers ports.OfferQueue,
	clock kernel.Clock,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		offerCascadeJob:        NewOfferCascadeJob(advanceOfferHandler, offers, clock, schedules.OfferCascade, logger),
		reconciliationSweepJob: NewReconciliationSweepJob(releaseStuckHandler, schedules.Reconciliation, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.offerCascadeJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer cascade job: %w", err)
	}

	if err := jm.reconciliationSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.offerCascadeJob.Stop()
		return fmt.Errorf("failed to start reconciliation sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.reconciliationSweepJob.Stop()
	jm.offerCascadeJob.Stop()
}
