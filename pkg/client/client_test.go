package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
}

func TestRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RegisterPath, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, true, body["acceptsEmails"])
		assert.Equal(t, false, body["isQualificationComplete"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"user":{"id":"u1","email":"a@b.com","subscription_status":"trial"},"qualification":null,"message":"Registration successful"}`))
	})

	resp, err := c.Register(context.Background(), &RegisterRequest{Email: "a@b.com", AcceptsEmails: true})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "trial", resp.User.SubscriptionStatus)
	assert.Nil(t, resp.Qualification)
}

func TestRegister_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Email already exists","code":"CONFLICT"}`))
	})

	_, err := c.Register(context.Background(), &RegisterRequest{Email: "a@b.com"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Email already exists", apiErr.Message)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.True(t, apiErr.IsServerError())
}

func TestRegister_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Register(context.Background(), &RegisterRequest{Email: "a@b.com"})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestSendWelcomeEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, WelcomeEmailPath, r.URL.Path)
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"message":"sent","emailId":"email_1"}`))
	})
	c.SetToken("svc-token")

	resp, err := c.SendWelcomeEmail(context.Background(), &WelcomeEmailRequest{To: "a@b.com", FirstName: "Camille"})
	require.NoError(t, err)
	assert.Equal(t, "email_1", resp.EmailID)
}

func TestAdmin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/admin/users":
			assert.Equal(t, "a+b@c.com", r.URL.Query().Get("email"))
			_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1","email":"a+b@c.com"},"qualifications":[],"subscriptions":[]}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/admin/users/u1/subscription":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "active", body["status"])
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"u1","subscription_status":"active"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"not found"}`))
		}
	})

	profile, err := c.GetUser(context.Background(), "a+b@c.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.User.ID)
	assert.Empty(t, profile.Qualifications)

	u, err := c.SetSubscriptionStatus(context.Background(), "u1", "active")
	require.NoError(t, err)
	assert.Equal(t, "active", u.SubscriptionStatus)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/readyz", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"status":"ready","database":"connected"}}`))
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", h.Status)
	assert.NoError(t, c.Ping(context.Background()))
}
