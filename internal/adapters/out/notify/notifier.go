package notify

import (
	"context"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"

	"github.com/hibiken/asynq"
)

var _ ports.Notifier = (*Notifier)(nil)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier enqueues a task per message and returns without waiting for
// delivery.
type Notifier struct {
	client enqueuer
	opts   []asynq.Option
}

func NewNotifier(client enqueuer, queue string) *Notifier {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Notifier{
		client: client,
		opts:   []asynq.Option{asynq.Queue(queue), asynq.MaxRetry(DefaultMaxRetry)},
	}
}

func (n *Notifier) Notify(ctx context.Context, userID kernel.UUID, title, body, ref string) error {
	task, err := newTask(TypePush, pushPayload{UserID: userID.String(), Title: title, Body: body, Ref: ref}, n.opts...)
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task)
	return err
}

func (n *Notifier) SMS(ctx context.Context, phone, body string) error {
	task, err := newTask(TypeSMS, smsPayload{Phone: phone, Body: body}, n.opts...)
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task)
	return err
}
