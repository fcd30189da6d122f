package services

import (
	"context"
	"time"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/metrics"
	"github.com/sleepharmony/landing/internal/pkg/tracing"
	"github.com/sleepharmony/landing/internal/templates"
)

// Welcome endpoint messages
const (
	MsgWelcomeSent   = "Email de bienvenue envoyé avec succès"
	MsgWelcomeFailed = "Erreur lors de l'envoi de l'email de bienvenue"
)

// WelcomeService implements notification.Service
type WelcomeService struct {
	renderer *templates.Renderer
	sender   notification.Sender
	from     string
	logger   *logger.Logger
}

// NewWelcomeService creates a new welcome email service
func NewWelcomeService(renderer *templates.Renderer, sender notification.Sender, from string, log *logger.Logger) *WelcomeService {
	return &WelcomeService{
		renderer: renderer,
		sender:   sender,
		from:     from,
		logger:   log,
	}
}

// SendWelcome renders the welcome email selected by req and hands it to the
// sender. Every failure is reported as the same generic delivery error.
func (s *WelcomeService) SendWelcome(ctx context.Context, req notification.WelcomeRequest) (string, error) {
	ctx, span := tracing.Start(ctx, "welcome.SendWelcome")
	defer span.End()

	template := req.TemplateFor()
	log := s.logger.WithFields(map[string]interface{}{
		"template": template,
		"sender":   s.sender.Name(),
	})

	msg, err := s.renderer.Render(req, s.from, int(user.TrialPeriod/(24*time.Hour)))
	if err != nil {
		log.ErrorWithErr(err, "Failed to render welcome email")
		span.RecordError(err)
		return "", errors.EmailDeliveryError(MsgWelcomeFailed, err)
	}

	start := time.Now()
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		metrics.RecordEmail(template, s.sender.Name(), "failed", time.Since(start))
		log.ErrorWithErr(err, "Failed to send welcome email")
		span.RecordError(err)
		return "", errors.EmailDeliveryError(MsgWelcomeFailed, err)
	}

	metrics.RecordEmail(template, s.sender.Name(), "sent", time.Since(start))
	log.With("email_id", id).Info("Welcome email sent")

	return id, nil
}
