package dto

import "github.com/sleepharmony/landing/internal/domain/notification"

// WelcomeEmailRequest is the body of a welcome email call
type WelcomeEmailRequest struct {
	To                      string `json:"to" validate:"required,email"`
	FirstName               string `json:"firstName" validate:"max=100"`
	IsQualificationComplete bool   `json:"isQualificationComplete"`
}

// ToDomain converts the request, greeting nameless registrants with the
// fallback first name
func (r WelcomeEmailRequest) ToDomain() notification.WelcomeRequest {
	return notification.NewWelcomeRequest(r.To, r.FirstName, r.IsQualificationComplete)
}

// WelcomeEmailResponse is the body of a successful welcome email call
type WelcomeEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID string `json:"emailId"`
}
