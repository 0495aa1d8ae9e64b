package mailer

import (
	"context"
	"log/slog"
)

// LogSender is a sender implementation that logs messages and always succeeds.
// It stands in for a real SMTP relay in development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a new log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Name returns the name of this sender.
func (s *LogSender) Name() string {
	return "log"
}

// Send logs the message details instead of delivering it.
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "log sender: email delivered",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}
