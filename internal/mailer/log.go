package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/pkg/logger"
)

// LogSender writes messages to the log instead of delivering them
type LogSender struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewLogSender creates a sender for development environments
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log, now: time.Now}
}

// Send logs msg and returns a time-based message ID
func (s *LogSender) Send(ctx context.Context, msg *notification.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := fmt.Sprintf("email_%d", s.now().UnixMilli())
	s.logger.WithFields(map[string]interface{}{
		"email_id": id,
		"to":       msg.To,
		"from":     msg.From,
		"subject":  msg.Subject,
	}).Info("Email captured by log sender")

	return id, nil
}

// Name returns "log"
func (s *LogSender) Name() string { return "log" }
