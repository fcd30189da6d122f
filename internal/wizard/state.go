// Package wizard implements the qualification questionnaire as a value state
// machine. Every transition takes a State and returns a new one; nothing is
// mutated in place.
package wizard

import (
	"errors"
	"slices"
	"strings"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/pkg/client"
)

// Step is a position in the questionnaire
type Step int

const (
	StepWelcome Step = iota
	StepDemographics
	StepRelationStatus
	StepChallenges
	StepUrgency
	StepMotivation
	StepContact
	StepConfirmation
)

// TotalSteps is the number of steps, confirmation included
const TotalSteps = 8

var (
	ErrWrongStep     = errors.New("field is not asked on this step")
	ErrInvalidOption = errors.New("value is not an option for this field")
	ErrNotMulti      = errors.New("field is not a multiple choice")
	ErrBusy          = errors.New("wizard is busy")
)

// stepFields lists the single-choice fields asked on each step
var stepFields = map[Step][]qualification.Field{
	StepDemographics:   {qualification.FieldBabyAge, qualification.FieldRelationDuration},
	StepRelationStatus: {qualification.FieldRelationStatus},
	StepUrgency:        {qualification.FieldUrgencyLevel},
	StepMotivation:     {qualification.FieldMotivation},
}

// Fields returns the single-choice fields asked on step
func Fields(step Step) []qualification.Field {
	return slices.Clone(stepFields[step])
}

// Contact is what the wizard hands to its host on completion
type Contact struct {
	Email     string
	FirstName string
}

// State is one snapshot of a wizard session
type State struct {
	Current       Step
	Answers       qualification.Answers
	FirstName     string
	Email         string
	AcceptsEmails bool

	Submitting      bool
	Error           string
	ConfirmingClose bool
	Closed          bool
}

// New returns the state of a freshly opened wizard
func New() State {
	return State{Current: StepWelcome}
}

// busy reports whether navigation and answers are locked
func (s State) busy() bool {
	return s.Submitting || s.ConfirmingClose || s.Closed
}

// Complete reports whether the answers required by step are present. For the
// contact step this is the submit gate.
func (s State) Complete(step Step) bool {
	switch step {
	case StepWelcome:
		return true
	case StepDemographics:
		return s.Answers.BabyAge != "" && s.Answers.RelationDuration != ""
	case StepRelationStatus:
		return s.Answers.RelationStatus != ""
	case StepChallenges:
		return len(s.Answers.MainChallenges) > 0
	case StepUrgency:
		return s.Answers.UrgencyLevel != ""
	case StepMotivation:
		return s.Answers.Motivation != ""
	case StepContact:
		return strings.TrimSpace(s.FirstName) != "" && strings.TrimSpace(s.Email) != "" && s.AcceptsEmails
	default:
		return true
	}
}

// CanAdvance reports whether Advance would move forward
func (s State) CanAdvance() bool {
	return !s.busy() && s.Current < StepContact && s.Complete(s.Current)
}

// CanRetreat reports whether Retreat would move back
func (s State) CanRetreat() bool {
	return !s.busy() && s.Current > StepWelcome && s.Current < StepConfirmation
}

// CanSubmit reports whether BeginSubmit would start a submission
func (s State) CanSubmit() bool {
	return !s.busy() && s.Current == StepContact && s.Complete(StepContact)
}

// Advance moves to the next step when the current one is complete. The
// contact step is left through submission only.
func (s State) Advance() State {
	if !s.CanAdvance() {
		return s
	}
	s.Current++
	return s
}

// Retreat moves to the previous step
func (s State) Retreat() State {
	if !s.CanRetreat() {
		return s
	}
	s.Current--
	s.Error = ""
	return s
}

// RequestClose closes right away on the welcome step and asks for
// confirmation anywhere else
func (s State) RequestClose() State {
	if s.busy() {
		return s
	}
	if s.Current == StepWelcome {
		return State{Current: StepWelcome, Closed: true}
	}
	s.ConfirmingClose = true
	return s
}

// ConfirmClose discards every answer and closes
func (s State) ConfirmClose() State {
	if !s.ConfirmingClose {
		return s
	}
	return State{Current: StepWelcome, Closed: true}
}

// CancelClose returns to the current step with its answers intact
func (s State) CancelClose() State {
	s.ConfirmingClose = false
	return s
}

// SelectSingle sets a single-choice field asked on the current step
func (s State) SelectSingle(field qualification.Field, value string) (State, error) {
	if s.busy() {
		return s, ErrBusy
	}
	if !slices.Contains(stepFields[s.Current], field) {
		if field == qualification.FieldMainChallenges {
			return s, ErrNotMulti
		}
		return s, ErrWrongStep
	}
	if !qualification.IsValid(field, value) {
		return s, ErrInvalidOption
	}

	switch field {
	case qualification.FieldBabyAge:
		s.Answers.BabyAge = value
	case qualification.FieldRelationDuration:
		s.Answers.RelationDuration = value
	case qualification.FieldRelationStatus:
		s.Answers.RelationStatus = value
	case qualification.FieldUrgencyLevel:
		s.Answers.UrgencyLevel = value
	case qualification.FieldMotivation:
		s.Answers.Motivation = value
	}
	return s, nil
}

// ToggleMulti adds value to the challenge set, or removes it when present
func (s State) ToggleMulti(field qualification.Field, value string) (State, error) {
	if s.busy() {
		return s, ErrBusy
	}
	if field != qualification.FieldMainChallenges {
		return s, ErrNotMulti
	}
	if s.Current != StepChallenges {
		return s, ErrWrongStep
	}
	if !qualification.IsValid(field, value) {
		return s, ErrInvalidOption
	}

	// Copy so earlier states keep their own set
	challenges := slices.Clone(s.Answers.MainChallenges)
	if i := slices.Index(challenges, value); i >= 0 {
		challenges = slices.Delete(challenges, i, i+1)
	} else {
		challenges = append(challenges, value)
	}
	s.Answers.MainChallenges = challenges
	return s, nil
}

// SetFirstName sets the contact first name
func (s State) SetFirstName(name string) State {
	if s.busy() {
		return s
	}
	s.FirstName = name
	return s
}

// SetEmail sets the contact email
func (s State) SetEmail(email string) State {
	if s.busy() {
		return s
	}
	s.Email = email
	return s
}

// SetConsent sets the email consent checkbox
func (s State) SetConsent(accepts bool) State {
	if s.busy() {
		return s
	}
	s.AcceptsEmails = accepts
	return s
}

// BeginSubmit marks the submission in flight and returns the registration to
// send. ok is false when submission is not allowed.
func (s State) BeginSubmit() (next State, req *client.RegisterRequest, ok bool) {
	if !s.CanSubmit() {
		return s, nil, false
	}
	s.Submitting = true
	s.Error = ""
	return s, s.request(), true
}

// ResolveSubmit applies the outcome of the registration call. A failure keeps
// every answer and shows err's message.
func (s State) ResolveSubmit(err error) State {
	if !s.Submitting {
		return s
	}
	s.Submitting = false
	if err != nil {
		s.Error = client.UserMessage(err)
		return s
	}
	s.Error = ""
	s.Current = StepConfirmation
	return s
}

// Contact returns the collected contact pair
func (s State) Contact() Contact {
	return Contact{Email: strings.TrimSpace(s.Email), FirstName: strings.TrimSpace(s.FirstName)}
}

// Done reports whether the confirmation step has been reached
func (s State) Done() bool {
	return s.Current == StepConfirmation
}

func (s State) request() *client.RegisterRequest {
	c := s.Contact()
	return &client.RegisterRequest{
		Email:                   c.Email,
		FirstName:               c.FirstName,
		BabyAge:                 s.Answers.BabyAge,
		RelationDuration:        s.Answers.RelationDuration,
		RelationStatus:          s.Answers.RelationStatus,
		MainChallenges:          slices.Clone(s.Answers.MainChallenges),
		UrgencyLevel:            s.Answers.UrgencyLevel,
		Motivation:              s.Answers.Motivation,
		AcceptsEmails:           s.AcceptsEmails,
		IsQualificationComplete: true,
	}
}
