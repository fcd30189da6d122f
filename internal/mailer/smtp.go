package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/domain/notification"
)

// SMTPSender delivers messages through an SMTP relay
type SMTPSender struct {
	addr     string
	host     string
	auth     smtp.Auth
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a sender for the configured relay
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:     cfg.Host,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

// Send delivers msg and returns its Message-ID
func (s *SMTPSender) Send(ctx context.Context, msg *notification.Message) (string, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return "", fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)
	body, err := buildMIME(msg, id, time.Now())
	if err != nil {
		return "", err
	}

	// net/smtp has no context support; honour cancellation before dialing
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.sendMail(s.addr, s.auth, from.Address, []string{to.Address}, body); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return id, nil
}

// Name returns "smtp"
func (s *SMTPSender) Name() string { return "smtp" }

// buildMIME renders msg as a multipart/alternative message
func buildMIME(msg *notification.Message, id string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []struct{ key, value string }{
		{"From", msg.From},
		{"To", msg.To},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"Date", date.Format(time.RFC1123Z)},
		{"Message-ID", id},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}

	var out bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&out, "%s: %s\r\n", h.key, h.value)
	}
	out.WriteString("\r\n")

	parts := []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mime writer: %w", err)
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}
