package registration

import (
	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/user"
)

// Request is a registration from the landing form or the wizard
type Request struct {
	Email                   string
	FirstName               string
	Answers                 qualification.Answers
	AcceptsEmails           bool
	IsQualificationComplete bool
}

// WantsQualification reports whether the request carries a completed
// questionnaire to record
func (r Request) WantsQualification() bool {
	return r.IsQualificationComplete && r.Answers.BabyAge != ""
}

// Result is the outcome of a successful registration
type Result struct {
	User          *user.User
	Qualification *qualification.Qualification
	Created       bool
	// Welcome is the notification to dispatch once the response is committed
	Welcome notification.WelcomeRequest
}
