package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/mail"
	texttemplate "text/template"

	"github.com/sleepharmony/landing/internal/domain/notification"
)

//go:embed email/*.html email/*.txt
var files embed.FS

// Data is the input of the welcome templates
type Data struct {
	FirstName   string
	Contact     string
	TrialDays   int
	Title       string
	Tagline     string
	ContactLead string
}

// Renderer renders the welcome emails
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(files, "email/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(files, "email/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// MustNew is like New but panics on a template error
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Subject returns the subject line of a welcome template
func Subject(template, firstName string) string {
	if template == notification.TemplateOnboarding {
		return fmt.Sprintf("🎉 %s, bienvenue dans Sleep Harmony !", firstName)
	}
	return fmt.Sprintf("👋 %s, merci pour votre intérêt pour Sleep Harmony", firstName)
}

// Render builds the welcome message for req, sent from the given address
func (r *Renderer) Render(req notification.WelcomeRequest, from string, trialDays int) (*notification.Message, error) {
	name := req.TemplateFor()
	data := Data{
		FirstName: req.FirstName,
		Contact:   contactAddress(from),
		TrialDays: trialDays,
	}
	if name == notification.TemplateOnboarding {
		data.Title = "Bienvenue dans Sleep Harmony"
		data.Tagline = "Votre parcours vers une relation épanouie commence maintenant"
		data.ContactLead = "Important :"
	} else {
		data.Title = "Merci pour votre intérêt - Sleep Harmony"
		data.Tagline = "Merci pour votre intérêt !"
		data.ContactLead = "En attendant :"
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", name, err)
	}

	return &notification.Message{
		From:    from,
		To:      req.To,
		Subject: Subject(name, req.FirstName),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// contactAddress extracts the bare address of a "Name <addr>" sender
func contactAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return from
	}
	return addr.Address
}
