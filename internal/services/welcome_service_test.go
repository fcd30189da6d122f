package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/templates"
	"github.com/sleepharmony/landing/internal/testutil"
	"github.com/sleepharmony/landing/pkg/client"
)

const testFrom = "Sleep Harmony <contact@sleepharmony.fr>"

func TestWelcomeService_SendWelcome(t *testing.T) {
	tests := []struct {
		name        string
		req         notification.WelcomeRequest
		wantSubject string
	}{
		{
			name:        "onboarding",
			req:         notification.NewWelcomeRequest("marie@example.fr", "Marie", true),
			wantSubject: "🎉 Marie, bienvenue dans Sleep Harmony !",
		},
		{
			name:        "interest",
			req:         notification.NewWelcomeRequest("a@b.co", "", false),
			wantSubject: "👋 Futur(e) parent, merci pour votre intérêt pour Sleep Harmony",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := testutil.NewMockSender()
			service := NewWelcomeService(templates.MustNew(), sender, testFrom, testutil.NewTestLogger())

			id, err := service.SendWelcome(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("SendWelcome() error = %v", err)
			}
			if id != "mock_1" {
				t.Errorf("id = %q, want mock_1", id)
			}

			sent := sender.Sent()
			if len(sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sent))
			}
			msg := sent[0]
			if msg.To != tt.req.To {
				t.Errorf("to = %q, want %q", msg.To, tt.req.To)
			}
			if msg.From != testFrom {
				t.Errorf("from = %q, want %q", msg.From, testFrom)
			}
			if msg.Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", msg.Subject, tt.wantSubject)
			}
			if !strings.Contains(msg.HTML, tt.req.FirstName) {
				t.Error("html body does not greet the recipient")
			}
			if msg.Text == "" {
				t.Error("text body is empty")
			}
		})
	}
}

func TestWelcomeService_SendWelcomeFailure(t *testing.T) {
	sender := testutil.NewMockSender()
	sender.SendErr = stderrors.New("smtp: 554 rejected")
	service := NewWelcomeService(templates.MustNew(), sender, testFrom, testutil.NewTestLogger())

	_, err := service.SendWelcome(context.Background(), notification.NewWelcomeRequest("a@b.co", "", false))

	appErr, ok := errors.As(err)
	if !ok {
		t.Fatalf("SendWelcome() error = %v, want AppError", err)
	}
	if appErr.Message != MsgWelcomeFailed {
		t.Errorf("message = %q, want %q", appErr.Message, MsgWelcomeFailed)
	}
	if appErr.Code != errors.ErrCodeEmailDelivery {
		t.Errorf("code = %q, want %q", appErr.Code, errors.ErrCodeEmailDelivery)
	}
	if appErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", appErr.StatusCode)
	}
}

type fakeWelcome struct {
	reqs []notification.WelcomeRequest
	err  error
}

func (f *fakeWelcome) SendWelcome(ctx context.Context, req notification.WelcomeRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return "id", f.err
}

func TestLocalNotifier(t *testing.T) {
	welcome := &fakeWelcome{}
	req := notification.NewWelcomeRequest("a@b.co", "Léa", true)

	if err := NewLocalNotifier(welcome).NotifyWelcome(context.Background(), req); err != nil {
		t.Fatalf("NotifyWelcome() error = %v", err)
	}
	if len(welcome.reqs) != 1 || welcome.reqs[0] != req {
		t.Errorf("forwarded %v, want [%v]", welcome.reqs, req)
	}

	welcome.err = stderrors.New("down")
	if err := NewLocalNotifier(welcome).NotifyWelcome(context.Background(), req); err == nil {
		t.Error("NotifyWelcome() error = nil, want failure")
	}
}

func TestHTTPNotifier(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.URL.Path != client.WelcomeEmailPath {
			t.Errorf("path = %q, want %q", r.URL.Path, client.WelcomeEmailPath)
		}
		// Every call carries its own token
		if want := "Bearer token-" + strconv.Itoa(int(n)); r.Header.Get("Authorization") != want {
			t.Errorf("authorization = %q, want %q", r.Header.Get("Authorization"), want)
		}

		var body client.WelcomeEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.To != "a@b.co" || !body.IsQualificationComplete {
			t.Errorf("body = %+v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "emailId": "e1"})
	}))
	defer server.Close()

	var minted int
	notifier := NewHTTPNotifier(
		client.Config{BaseURL: server.URL, HTTPClient: server.Client()},
		func() (string, error) {
			minted++
			return "token-" + strconv.Itoa(minted), nil
		},
	)

	req := notification.NewWelcomeRequest("a@b.co", "Léa", true)
	for i := 0; i < 2; i++ {
		if err := notifier.NotifyWelcome(context.Background(), req); err != nil {
			t.Fatalf("NotifyWelcome() error = %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestHTTPNotifierTokenFailure(t *testing.T) {
	notifier := NewHTTPNotifier(client.Config{BaseURL: "http://127.0.0.1:1"}, func() (string, error) {
		return "", stderrors.New("no secret")
	})

	err := notifier.NotifyWelcome(context.Background(), notification.NewWelcomeRequest("a@b.co", "", false))
	if err == nil || !strings.Contains(err.Error(), "mint service token") {
		t.Errorf("NotifyWelcome() error = %v, want token failure", err)
	}
}
