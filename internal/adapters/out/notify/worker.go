package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Worker consumes notification tasks.
type Worker struct {
	transport Transport
	logger    *slog.Logger
}

func NewWorker(transport Transport, logger *slog.Logger) *Worker {
	return &Worker{transport: transport, logger: logger.With("component", "NotificationWorker")}
}

// Register routes both task types to the worker.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePush, w.HandlePush)
	mux.HandleFunc(TypeSMS, w.HandleSMS)
}

func (w *Worker) HandlePush(ctx context.Context, task *asynq.Task) error {
	var p pushPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal push payload: %w: %w", err, asynq.SkipRetry)
	}
	if err := w.transport.Push(ctx, p.UserID, p.Title, p.Body, p.Ref); err != nil {
		retry, _ := asynq.GetRetryCount(ctx)
		w.logger.WarnContext(ctx, "push delivery failed", "user_id", p.UserID, "retry", retry, "error", err)
		return err
	}
	return nil
}

func (w *Worker) HandleSMS(ctx context.Context, task *asynq.Task) error {
	var p smsPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal sms payload: %w: %w", err, asynq.SkipRetry)
	}
	if err := w.transport.SMS(ctx, p.Phone, p.Body); err != nil {
		retry, _ := asynq.GetRetryCount(ctx)
		w.logger.WarnContext(ctx, "sms delivery failed", "phone", maskPhone(p.Phone), "retry", retry, "error", err)
		return err
	}
	return nil
}

// NewServer builds the asynq server that runs the worker.
func NewServer(redisOpt asynq.RedisConnOpt, queue string, concurrency int, logger *slog.Logger) *asynq.Server {
	if queue == "" {
		queue = DefaultQueue
	}
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.ErrorContext(ctx, "notification task failed", "type", task.Type(), "error", err)
		}),
	})
}
