package services

import (
	"context"
	"fmt"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/pkg/client"
)

// LocalNotifier sends welcome emails in process
type LocalNotifier struct {
	welcome notification.Service
}

// NewLocalNotifier creates a notifier backed by the welcome service
func NewLocalNotifier(welcome notification.Service) *LocalNotifier {
	return &LocalNotifier{welcome: welcome}
}

// NotifyWelcome sends the welcome email
func (n *LocalNotifier) NotifyWelcome(ctx context.Context, req notification.WelcomeRequest) error {
	_, err := n.welcome.SendWelcome(ctx, req)
	return err
}

// TokenSource returns a bearer token for one call
type TokenSource func() (string, error)

// HTTPNotifier calls the welcome endpoint with a fresh service token per call
type HTTPNotifier struct {
	cfg    client.Config
	tokens TokenSource
}

// NewHTTPNotifier creates a notifier calling the welcome endpoint described by
// cfg. cfg.HTTPClient is shared between calls.
func NewHTTPNotifier(cfg client.Config, tokens TokenSource) *HTTPNotifier {
	return &HTTPNotifier{cfg: cfg, tokens: tokens}
}

// NotifyWelcome posts req to the welcome endpoint
func (n *HTTPNotifier) NotifyWelcome(ctx context.Context, req notification.WelcomeRequest) error {
	token, err := n.tokens()
	if err != nil {
		return fmt.Errorf("mint service token: %w", err)
	}

	cfg := n.cfg
	cfg.Token = token
	_, err = client.NewClient(cfg).SendWelcomeEmail(ctx, &client.WelcomeEmailRequest{
		To:                      req.To,
		FirstName:               req.FirstName,
		IsQualificationComplete: req.IsQualificationComplete,
	})
	return err
}
