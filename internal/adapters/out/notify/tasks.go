// Package notify queues push and SMS messages on asynq and delivers them from
// a worker through a Transport. Enqueue failures surface to the caller, which
// logs them; delivery failures are retried by asynq.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypePush = "notify:push"
	TypeSMS  = "notify:sms"

	DefaultQueue    = "notifications"
	DefaultMaxRetry = 5
)

type pushPayload struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Ref    string `json:"ref,omitempty"`
}

type smsPayload struct {
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

func newTask(typename string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, b, opts...), nil
}
