package notifications

import (
	"context"

	"github.com/dmitrijs2005/poshtyar/internal/logging"
)

// LogSender writes the code to the log instead of mailing it. Development only.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOTPEmail(ctx context.Context, to, displayName, code string) error {
	s.logger.Warn(ctx, "otp email not sent, log provider active", "to", to, "name", displayName, "code", code)
	return nil
}
