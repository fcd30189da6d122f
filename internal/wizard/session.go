package wizard

import (
	"context"
	"errors"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/pkg/client"
)

// ErrCannotSubmit is returned by Submit outside the contact step or before
// the contact details are complete
var ErrCannotSubmit = errors.New("wizard cannot submit in its current state")

// Registrar sends registrations
type Registrar interface {
	Register(ctx context.Context, req *client.RegisterRequest) (*client.RegisterResponse, error)
}

// Hooks notify the host of the wizard's terminal events. Nil hooks are
// skipped.
type Hooks struct {
	OnComplete func(Contact)
	OnContinue func(Contact)
	OnClose    func()
}

// Session drives a State for a host. It is not safe for concurrent use.
type Session struct {
	state     State
	registrar Registrar
	hooks     Hooks
	logger    *logger.Logger
}

// NewSession opens a wizard
func NewSession(registrar Registrar, hooks Hooks, log *logger.Logger) *Session {
	return &Session{
		state:     New(),
		registrar: registrar,
		hooks:     hooks,
		logger:    log,
	}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

func (s *Session) set(next State) State {
	wasClosed := s.state.Closed
	s.state = next
	if next.Closed && !wasClosed && s.hooks.OnClose != nil {
		s.hooks.OnClose()
	}
	return next
}

// Advance moves to the next step when allowed
func (s *Session) Advance() State { return s.set(s.state.Advance()) }

// Retreat moves to the previous step when allowed
func (s *Session) Retreat() State { return s.set(s.state.Retreat()) }

// RequestClose closes or asks for confirmation
func (s *Session) RequestClose() State { return s.set(s.state.RequestClose()) }

// ConfirmClose discards the answers and closes
func (s *Session) ConfirmClose() State { return s.set(s.state.ConfirmClose()) }

// CancelClose keeps the wizard open
func (s *Session) CancelClose() State { return s.set(s.state.CancelClose()) }

// Select sets a single-choice answer
func (s *Session) Select(field qualification.Field, value string) error {
	next, err := s.state.SelectSingle(field, value)
	if err != nil {
		return err
	}
	s.set(next)
	return nil
}

// Toggle flips a challenge in or out of the selection
func (s *Session) Toggle(field qualification.Field, value string) error {
	next, err := s.state.ToggleMulti(field, value)
	if err != nil {
		return err
	}
	s.set(next)
	return nil
}

// SetContact fills in the contact step
func (s *Session) SetContact(firstName, email string, accepts bool) State {
	return s.set(s.state.SetFirstName(firstName).SetEmail(email).SetConsent(accepts))
}

// Submit sends the registration and waits for the outcome. On success the
// wizard moves to the confirmation step and OnComplete fires; on failure the
// error text is kept in the state and the answers are untouched.
func (s *Session) Submit(ctx context.Context) error {
	next, req, ok := s.state.BeginSubmit()
	if !ok {
		return ErrCannotSubmit
	}
	s.set(next)

	resp, err := s.registrar.Register(ctx, req)
	if err == nil && (resp == nil || !resp.Success) {
		err = &client.APIError{Message: client.MsgUnknownFailure}
	}

	log := s.logger.With("email", req.Email)
	if err != nil {
		log.WarnWithErr(err, "Wizard registration failed")
	} else {
		if resp.User != nil {
			log = log.With("user_id", resp.User.ID)
		}
		log.Info("Wizard registration completed")
	}

	s.set(s.state.ResolveSubmit(err))
	if err != nil {
		return err
	}

	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(s.state.Contact())
	}
	return nil
}

// Continue leaves the confirmation step for the product
func (s *Session) Continue() State {
	if !s.state.Done() || s.state.Closed {
		return s.state
	}
	if s.hooks.OnContinue != nil {
		s.hooks.OnContinue(s.state.Contact())
	}
	s.state.Closed = true
	return s.state
}
