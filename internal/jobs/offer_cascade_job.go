package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	DefaultOfferCascadeSpec = "* * * * * *"
	offerBatchSize          = 100
	offerRetryDelay         = time.Second
)

type offerAdvancer interface {
	Handle(ctx context.Context, cmd commands.AdvanceOfferCommand) (bool, error)
}

// OfferCascadeJob drains expired exclusive offers from the queue and moves
// each mission to its next candidate.
type OfferCascadeJob struct {
	handler offerAdvancer
	queue   ports.OfferQueue
	clock   kernel.Clock
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferCascadeJob runs on spec, a six-field cron expression; an empty spec
// means every second.
func NewOfferCascadeJob(
	handler offerAdvancer,
	queue ports.OfferQueue,
	clock kernel.Clock,
	spec string,
	logger *slog.Logger,
) *OfferCascadeJob {
	if spec == "" {
		spec = DefaultOfferCascadeSpec
	}
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &OfferCascadeJob{
		handler: handler,
		queue:   queue,
		clock:   clock,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "offer_cascade_job"),
	}
}

func (j *OfferCascadeJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Offer cascade job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer cascade job started", "spec", j.spec)
	return nil
}

func (j *OfferCascadeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer cascade job stopped")
}

// RunOnce advances every offer due now and returns how many moved. A mission
// whose advance failed with a retryable error is put back on the queue.
func (j *OfferCascadeJob) RunOnce(ctx context.Context) (int, error) {
	now := j.clock.Now()
	due, err := j.queue.Due(ctx, now, offerBatchSize)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, id := range due {
		cmd, err := commands.NewAdvanceOfferCommand(id)
		if err != nil {
			continue
		}
		moved, err := j.handler.Handle(ctx, cmd)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			continue
		case errors.Is(err, errs.ErrRetryable):
			j.logger.WarnContext(ctx, "offer advance deferred", "mission_id", id.String(), "error", err)
			if err = j.queue.Schedule(ctx, id, now.Add(offerRetryDelay)); err != nil {
				j.logger.ErrorContext(ctx, "offer expiry lost", "mission_id", id.String(), "error", err)
			}
			continue
		case err != nil:
			j.logger.ErrorContext(ctx, "offer advance failed", "mission_id", id.String(), "error", err)
			continue
		}
		if moved {
			advanced++
		}
	}
	return advanced, nil
}
