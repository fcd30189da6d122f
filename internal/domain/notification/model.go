package notification

import "strings"

// FallbackFirstName greets registrants who did not give a first name
const FallbackFirstName = "Futur(e) parent"

// WelcomeRequest is the payload of a welcome email
type WelcomeRequest struct {
	To                      string `json:"to"`
	FirstName               string `json:"firstName"`
	IsQualificationComplete bool   `json:"isQualificationComplete"`
}

// NewWelcomeRequest builds the welcome payload for a registration
func NewWelcomeRequest(email, firstName string, qualificationComplete bool) WelcomeRequest {
	if strings.TrimSpace(firstName) == "" {
		firstName = FallbackFirstName
	}
	return WelcomeRequest{
		To:                      email,
		FirstName:               firstName,
		IsQualificationComplete: qualificationComplete,
	}
}

// Template names
const (
	TemplateOnboarding = "onboarding"
	TemplateInterest   = "interest"
)

// TemplateFor selects the welcome template
func (r WelcomeRequest) TemplateFor() string {
	if r.IsQualificationComplete {
		return TemplateOnboarding
	}
	return TemplateInterest
}

// Message is a rendered email ready for delivery
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}
