package client

import (
	"context"
	"net/http"
)

// RegisterPath is the registration endpoint
const RegisterPath = "/api/v1/register"

// RegisterRequest is a landing or wizard registration
type RegisterRequest struct {
	Email                   string   `json:"email"`
	FirstName               string   `json:"firstName,omitempty"`
	BabyAge                 string   `json:"babyAge,omitempty"`
	RelationDuration        string   `json:"relationDuration,omitempty"`
	RelationStatus          string   `json:"relationStatus,omitempty"`
	MainChallenges          []string `json:"mainChallenges,omitempty"`
	UrgencyLevel            string   `json:"urgencyLevel,omitempty"`
	Motivation              string   `json:"motivation,omitempty"`
	AcceptsEmails           bool     `json:"acceptsEmails"`
	IsQualificationComplete bool     `json:"isQualificationComplete"`
}

// RegisterResponse is the result of a successful registration
type RegisterResponse struct {
	Success       bool           `json:"success"`
	User          *User          `json:"user"`
	Qualification *Qualification `json:"qualification"`
	Message       string         `json:"message"`
}

// Register finds or creates the user for req.Email
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, RegisterPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
