package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/testutil"
)

func testMessage() *notification.Message {
	return &notification.Message{
		From:    "Sleep Harmony <contact@sleepharmony.fr>",
		To:      "a@b.com",
		Subject: "🎉 Camille, bienvenue dans Sleep Harmony !",
		HTML:    "<p>Bonjour Camille</p>",
		Text:    "Bonjour Camille",
	}
}

func TestLogSender_Send(t *testing.T) {
	s := NewLogSender(testutil.NewTestLogger())
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	id, err := s.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "email_1700000000123" {
		t.Errorf("id = %q, want email_1700000000123", id)
	}
	if s.Name() != "log" {
		t.Errorf("Name() = %q", s.Name())
	}
}

func TestSMTPSender_Send(t *testing.T) {
	tests := []struct {
		name    string
		msg     *notification.Message
		sendErr error
		wantErr bool
	}{
		{name: "delivers multipart message", msg: testMessage()},
		{name: "relay failure", msg: testMessage(), sendErr: errors.New("connection refused"), wantErr: true},
		{
			name:    "invalid recipient",
			msg:     &notification.Message{From: "contact@sleepharmony.fr", To: "not an address"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587})

			var gotAddr, gotFrom string
			var gotTo []string
			var gotBody []byte
			s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
				gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
				return tt.sendErr
			}

			id, err := s.Send(context.Background(), tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if gotAddr != "smtp.example.com:587" {
				t.Errorf("addr = %q", gotAddr)
			}
			if gotFrom != "contact@sleepharmony.fr" {
				t.Errorf("from = %q", gotFrom)
			}
			if len(gotTo) != 1 || gotTo[0] != "a@b.com" {
				t.Errorf("to = %v", gotTo)
			}
			if !strings.HasSuffix(id, "@smtp.example.com>") {
				t.Errorf("id = %q", id)
			}

			body := string(gotBody)
			for _, want := range []string{"Message-ID: " + id, "multipart/alternative", "text/html", "<p>Bonjour Camille</p>", "Subject: =?utf-8?q?"} {
				if !strings.Contains(body, want) {
					t.Errorf("message does not contain %q", want)
				}
			}
		})
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	s := &SESSender{client: fake, configurationSet: "welcome"}

	id, err := s.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "ses-123" {
		t.Errorf("id = %q, want ses-123", id)
	}

	in := fake.input
	if aws.ToString(in.FromEmailAddress) != "Sleep Harmony <contact@sleepharmony.fr>" {
		t.Errorf("from = %q", aws.ToString(in.FromEmailAddress))
	}
	if got := in.Destination.ToAddresses; len(got) != 1 || got[0] != "a@b.com" {
		t.Errorf("to = %v", got)
	}
	if aws.ToString(in.Content.Simple.Subject.Data) != testMessage().Subject {
		t.Errorf("subject = %q", aws.ToString(in.Content.Simple.Subject.Data))
	}
	if aws.ToString(in.ConfigurationSetName) != "welcome" {
		t.Errorf("configuration set = %q", aws.ToString(in.ConfigurationSetName))
	}

	fake.err = errors.New("throttled")
	if _, err := s.Send(context.Background(), testMessage()); err == nil {
		t.Error("Send() should fail when SES fails")
	}
}

func TestNew(t *testing.T) {
	log := testutil.NewTestLogger()

	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{provider: "log", want: "log"},
		{provider: "smtp", want: "smtp"},
		{provider: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			s, err := New(context.Background(), config.EmailConfig{Provider: tt.provider}, log)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}
