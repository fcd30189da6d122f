package notification

import "context"

// Sender delivers rendered messages
type Sender interface {
	// Send delivers msg and returns the provider-assigned message ID
	Send(ctx context.Context, msg *Message) (string, error)

	// Name identifies the sender in logs and metrics
	Name() string
}

// Service renders and sends welcome emails
type Service interface {
	// SendWelcome renders the template selected by req and returns the
	// provider-assigned message ID
	SendWelcome(ctx context.Context, req WelcomeRequest) (string, error)
}

// Notifier triggers a welcome email on behalf of the registration flow
type Notifier interface {
	NotifyWelcome(ctx context.Context, req WelcomeRequest) error
}

// Dispatcher runs welcome notifications outside the request path. Dispatch
// never blocks; it reports false when the notification was dropped.
type Dispatcher interface {
	Dispatch(req WelcomeRequest) bool
}
