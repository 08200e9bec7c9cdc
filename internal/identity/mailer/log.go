package mailer

import (
	"context"
	"log/slog"
)

// LogSender writes mail to the log instead of delivering it. Default in dev
// so activation and reset links are easy to grab from the console.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to string, msg Message) error {
	s.Logger.Info("outbound email",
		"to", to,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
