package jobs

import (
	"context"
	"log/slog"

	"pickupoint/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultReconciliationSpec = "0 */2 * * * *"

type stuckReleaser interface {
	Handle(ctx context.Context, cmd commands.ReleaseStuckMissionsCommand) (int, error)
}

// ReconciliationSweepJob hands back missions that were accepted but never
// picked up, and advances exclusive offers whose queue entry was lost.
type ReconciliationSweepJob struct {
	handler stuckReleaser
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReconciliationSweepJob runs on spec; an empty spec means every two
// minutes.
func NewReconciliationSweepJob(handler stuckReleaser, spec string, logger *slog.Logger) *ReconciliationSweepJob {
	if spec == "" {
		spec = DefaultReconciliationSpec
	}
	return &ReconciliationSweepJob{
		handler: handler,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "reconciliation_sweep_job"),
	}
}

func (j *ReconciliationSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Reconciliation sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation sweep started", "spec", j.spec)
	return nil
}

func (j *ReconciliationSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reconciliation sweep stopped")
}

// RunOnce returns the number of missions released.
func (j *ReconciliationSweepJob) RunOnce(ctx context.Context) (int, error) {
	return j.handler.Handle(ctx, commands.NewReleaseStuckMissionsCommand())
}
