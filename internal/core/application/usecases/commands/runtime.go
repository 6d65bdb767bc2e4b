package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Runtime is what state-changing handlers share besides their unit of work.
// Notifier and Offers may be nil; the matching side effects are then skipped.
type Runtime struct {
	Clock    kernel.Clock
	Policy   services.DispatchPolicy
	Splitter services.RevenueSplitter
	Notifier ports.Notifier
	Offers   ports.OfferQueue
	Logger   *slog.Logger

	// RetryBackOff builds the schedule used to retry a unit of work that
	// failed with errs.ErrRetryable. Nil means three exponential retries.
	RetryBackOff func() backoff.BackOff
}

func (r Runtime) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now()
}

func (r Runtime) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r Runtime) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if r.RetryBackOff != nil {
		b = r.RetryBackOff()
	} else {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 100 * time.Millisecond
		exp.MaxInterval = 2 * time.Second
		b = backoff.WithMaxRetries(exp, 3)
	}
	return backoff.WithContext(b, ctx)
}

// retryUnitOfWork runs attempt until it succeeds, fails with an error that is
// not retryable, or the schedule gives up.
func retryUnitOfWork[T any](ctx context.Context, rt Runtime, op string, attempt func() (T, error)) (T, error) {
	tries := 0
	return backoff.RetryNotifyWithData(func() (T, error) {
		tries++
		res, err := attempt()
		if err != nil && !errors.Is(err, errs.ErrRetryable) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, rt.backOff(ctx), func(err error, wait time.Duration) {
		rt.logger().WarnContext(ctx, "retrying unit of work", "op", op, "attempt", tries, "wait", wait, "error", err)
	})
}

// retryable marks a storage failure as transient. A missing object and an
// error that is already retryable pass through unchanged.
func retryable(op string, err error) error {
	if err == nil || errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrRetryable) {
		return err
	}
	return errs.NewRetryableError(op, err)
}

// effects collects the outbound calls a handler makes once its transaction
// has committed. They are best effort: failures are logged, never returned.
type effects struct {
	rt    Runtime
	queue []func(ctx context.Context) error
	names []string
}

func newEffects(rt Runtime) *effects {
	return &effects{rt: rt}
}

func (e *effects) add(name string, fn func(ctx context.Context) error) {
	e.queue = append(e.queue, fn)
	e.names = append(e.names, name)
}

func (e *effects) notify(userID kernel.UUID, title, body, ref string) {
	if e.rt.Notifier == nil {
		return
	}
	e.add("notify", func(ctx context.Context) error {
		return e.rt.Notifier.Notify(ctx, userID, title, body, ref)
	})
}

func (e *effects) sms(phone, body string) {
	if e.rt.Notifier == nil || phone == "" {
		return
	}
	e.add("sms", func(ctx context.Context) error {
		return e.rt.Notifier.SMS(ctx, phone, body)
	})
}

func (e *effects) scheduleOffer(missionID kernel.UUID, at time.Time) {
	if e.rt.Offers == nil {
		return
	}
	e.add("schedule offer", func(ctx context.Context) error {
		return e.rt.Offers.Schedule(ctx, missionID, at)
	})
}

func (e *effects) cancelOffer(missionID kernel.UUID) {
	if e.rt.Offers == nil {
		return
	}
	e.add("cancel offer", func(ctx context.Context) error {
		return e.rt.Offers.Cancel(ctx, missionID)
	})
}

// flush runs the queued calls in order.
func (e *effects) flush(ctx context.Context) {
	for i, fn := range e.queue {
		if err := fn(ctx); err != nil {
			e.rt.logger().WarnContext(ctx, "post-commit side effect failed", "effect", e.names[i], "error", err)
		}
	}
	e.queue = nil
	e.names = nil
}
