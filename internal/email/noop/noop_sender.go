package noop

import (
	"context"

	"go.uber.org/zap"

	"regtrack/internal/port"
)

type noopSender struct {
	log *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs login codes instead of
// sending them. Development only.
func NewNoopSender(log *zap.Logger) port.EmailSender {
	return &noopSender{log: log}
}

func (s *noopSender) SendLoginCode(_ context.Context, toEmail, toName, code string) error {
	s.log.Info("noop email: login code",
		zap.String("to", toEmail), zap.String("name", toName), zap.String("code", code))
	return nil
}

func (s *noopSender) SendPasswordReset(_ context.Context, toEmail, toName, token string) error {
	s.log.Info("noop email: password reset",
		zap.String("to", toEmail), zap.String("name", toName), zap.String("token", token))
	return nil
}
