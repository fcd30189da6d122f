package mailer

import (
	"context"
	"fmt"

	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/pkg/logger"
)

// New builds the sender selected by cfg.Provider
func New(ctx context.Context, cfg config.EmailConfig, log *logger.Logger) (notification.Sender, error) {
	switch cfg.Provider {
	case "log", "":
		return NewLogSender(log), nil
	case "smtp":
		return NewSMTPSender(cfg.SMTP), nil
	case "ses":
		return NewSESSender(ctx, cfg.SES)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}
