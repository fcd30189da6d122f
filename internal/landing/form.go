// Package landing holds the single-field email capture of the landing page.
package landing

import (
	"context"
	"errors"
	"strings"

	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/pkg/client"
)

// MsgInvalidEmail is shown when the field is submitted empty
const MsgInvalidEmail = "Veuillez saisir une adresse email valide"

var (
	ErrEmptyEmail = errors.New(MsgInvalidEmail)
	ErrInFlight   = errors.New("submission already in flight")
)

// Form is the state of the email capture form
type Form struct {
	Email      string
	Submitting bool
	Submitted  bool
	Error      string
}

// SetEmail updates the input. It is ignored while a submission is in flight.
func (f Form) SetEmail(email string) Form {
	if f.Submitting {
		return f
	}
	f.Email = email
	return f
}

// Begin starts a submission and returns the registration to send
func (f Form) Begin() (Form, *client.RegisterRequest, error) {
	if f.Submitting {
		return f, nil, ErrInFlight
	}

	email := strings.TrimSpace(f.Email)
	if email == "" {
		f.Error = MsgInvalidEmail
		return f, nil, ErrEmptyEmail
	}

	f.Submitting = true
	f.Error = ""
	return f, &client.RegisterRequest{
		Email:                   email,
		AcceptsEmails:           true,
		IsQualificationComplete: false,
	}, nil
}

// Resolve applies the outcome of the registration call. On failure the input
// is kept for a retry.
func (f Form) Resolve(err error) Form {
	f.Submitting = false
	if err != nil {
		f.Error = client.UserMessage(err)
		return f
	}
	f.Error = ""
	f.Submitted = true
	return f
}

// Registrar sends registrations
type Registrar interface {
	Register(ctx context.Context, req *client.RegisterRequest) (*client.RegisterResponse, error)
}

// Submit runs a whole submission of f through r
func Submit(ctx context.Context, r Registrar, f Form, log *logger.Logger) (Form, error) {
	f, req, err := f.Begin()
	if err != nil {
		return f, err
	}

	resp, err := r.Register(ctx, req)
	if err == nil && (resp == nil || !resp.Success) {
		err = &client.APIError{Message: client.MsgUnknownFailure}
	}
	if err != nil {
		log.With("email", req.Email).WarnWithErr(err, "Landing signup failed")
	} else {
		log.With("email", req.Email).Info("Landing signup completed")
	}

	return f.Resolve(err), err
}
