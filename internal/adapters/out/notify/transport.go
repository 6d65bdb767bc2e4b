package notify

import (
	"context"
	"log/slog"
)

// Transport hands a message to the outside world: a push gateway, an SMS
// provider, or the log.
type Transport interface {
	Push(ctx context.Context, userID, title, body, ref string) error
	SMS(ctx context.Context, phone, body string) error
}

// LogTransport writes messages to the structured log. It is the transport
// for deployments without a push or SMS provider.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger.With("component", "LogTransport")}
}

func (t *LogTransport) Push(ctx context.Context, userID, title, body, ref string) error {
	t.logger.InfoContext(ctx, "push notification", "user_id", userID, "title", title, "body", body, "ref", ref)
	return nil
}

func (t *LogTransport) SMS(ctx context.Context, phone, body string) error {
	t.logger.InfoContext(ctx, "sms", "phone", maskPhone(phone), "body", body)
	return nil
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) <= 4 {
		return phone
	}
	for i := range runes[:len(runes)-4] {
		if runes[i] >= '0' && runes[i] <= '9' {
			runes[i] = '*'
		}
	}
	return string(runes)
}
