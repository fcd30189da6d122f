package client

import (
	"context"
	"net/http"
	"net/url"
)

// GetUser looks up a user and its records by email. It needs a token with
// the admin scope.
func (c *Client) GetUser(ctx context.Context, email string) (*Profile, error) {
	var resp envelope[*Profile]
	path := "/api/v1/admin/users?email=" + url.QueryEscape(email)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SetSubscriptionStatus changes a user's subscription status
func (c *Client) SetSubscriptionStatus(ctx context.Context, userID, status string) (*User, error) {
	var resp envelope[*User]
	body := map[string]string{"status": status}
	path := "/api/v1/admin/users/" + url.PathEscape(userID) + "/subscription"
	if err := c.doRequest(ctx, http.MethodPut, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
