package client

import (
	"context"
	"net/http"
)

// WelcomeEmailPath is the welcome email endpoint
const WelcomeEmailPath = "/api/v1/welcome-email"

// WelcomeEmailRequest asks for a welcome email
type WelcomeEmailRequest struct {
	To                      string `json:"to"`
	FirstName               string `json:"firstName"`
	IsQualificationComplete bool   `json:"isQualificationComplete"`
}

// WelcomeEmailResponse is the result of a sent welcome email
type WelcomeEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID string `json:"emailId"`
}

// SendWelcomeEmail sends a welcome email. It needs a token with the
// welcome:send scope.
func (c *Client) SendWelcomeEmail(ctx context.Context, req *WelcomeEmailRequest) (*WelcomeEmailResponse, error) {
	var resp WelcomeEmailResponse
	if err := c.doRequest(ctx, http.MethodPost, WelcomeEmailPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
