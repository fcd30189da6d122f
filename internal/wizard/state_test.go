package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/pkg/client"
)

func mustSelect(t *testing.T, s State, field qualification.Field, value string) State {
	t.Helper()
	next, err := s.SelectSingle(field, value)
	require.NoError(t, err)
	return next
}

func mustToggle(t *testing.T, s State, value string) State {
	t.Helper()
	next, err := s.ToggleMulti(qualification.FieldMainChallenges, value)
	require.NoError(t, err)
	return next
}

// fill answers the given step so that its gate holds
func fill(t *testing.T, s State) State {
	t.Helper()
	switch s.Current {
	case StepDemographics:
		s = mustSelect(t, s, qualification.FieldBabyAge, "3-6 mois")
		return mustSelect(t, s, qualification.FieldRelationDuration, "2-5 ans")
	case StepRelationStatus:
		return mustSelect(t, s, qualification.FieldRelationStatus, "tendu")
	case StepChallenges:
		return mustToggle(t, s, "sommeil")
	case StepUrgency:
		return mustSelect(t, s, qualification.FieldUrgencyLevel, "empire")
	case StepMotivation:
		return mustSelect(t, s, qualification.FieldMotivation, "equipe")
	case StepContact:
		return s.SetFirstName("Camille").SetEmail("camille@example.com").SetConsent(true)
	}
	return s
}

// at returns a state on step with every earlier step answered
func at(t *testing.T, step Step) State {
	t.Helper()
	s := New()
	for s.Current < step {
		s = fill(t, s)
		next := s.Advance()
		require.Equal(t, s.Current+1, next.Current)
		s = next
	}
	return s
}

func TestAdvance_GatedByCompleteness(t *testing.T) {
	for step := StepWelcome; step < StepContact; step++ {
		t.Run("step "+string(rune('0'+step)), func(t *testing.T) {
			s := at(t, step)

			if step != StepWelcome {
				assert.False(t, s.Complete(step))
				assert.Equal(t, s, s.Advance(), "incomplete step must not advance")
			}

			s = fill(t, s)
			assert.Equal(t, step+1, s.Advance().Current)
		})
	}
}

func TestAdvance_ContactStepOnlySubmits(t *testing.T) {
	s := fill(t, at(t, StepContact))
	assert.True(t, s.Complete(StepContact))
	assert.Equal(t, StepContact, s.Advance().Current)
	assert.True(t, s.CanSubmit())
}

func TestContactGate(t *testing.T) {
	base := at(t, StepContact)

	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"empty", base, false},
		{"no consent", base.SetFirstName("Camille").SetEmail("c@x.fr"), false},
		{"no email", base.SetFirstName("Camille").SetConsent(true), false},
		{"blank first name", base.SetFirstName("  ").SetEmail("c@x.fr").SetConsent(true), false},
		{"complete", base.SetFirstName("Camille").SetEmail("c@x.fr").SetConsent(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Complete(StepContact))
			_, _, ok := tt.state.BeginSubmit()
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRetreat(t *testing.T) {
	assert.Equal(t, New(), New().Retreat())

	s := at(t, StepUrgency)
	assert.Equal(t, StepChallenges, s.Retreat().Current)
	assert.Equal(t, s.Answers, s.Retreat().Answers)

	done := State{Current: StepConfirmation}
	assert.Equal(t, StepConfirmation, done.Retreat().Current)
}

func TestToggleMulti_IsAnInvolution(t *testing.T) {
	s := mustToggle(t, at(t, StepChallenges), "routine")
	before := s.Answers.MainChallenges

	twice := mustToggle(t, mustToggle(t, s, "sommeil"), "sommeil")
	assert.Equal(t, before, twice.Answers.MainChallenges)

	once := mustToggle(t, s, "routine")
	assert.Empty(t, once.Answers.MainChallenges)
	assert.Equal(t, []string{"routine"}, s.Answers.MainChallenges, "earlier state must keep its own set")
}

func TestSelectSingle_Errors(t *testing.T) {
	s := at(t, StepDemographics)

	_, err := s.SelectSingle(qualification.FieldBabyAge, "2 ans")
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = s.SelectSingle(qualification.FieldMotivation, "equipe")
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = s.ToggleMulti(qualification.FieldMainChallenges, "sommeil")
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = at(t, StepChallenges).SelectSingle(qualification.FieldMainChallenges, "sommeil")
	assert.ErrorIs(t, err, ErrNotMulti)

	_, err = at(t, StepChallenges).ToggleMulti(qualification.FieldUrgencyLevel, "empire")
	assert.ErrorIs(t, err, ErrNotMulti)

	// Overwrite keeps the latest choice
	s = mustSelect(t, mustSelect(t, s, qualification.FieldBabyAge, "3-6 mois"), qualification.FieldBabyAge, "6-12 mois")
	assert.Equal(t, "6-12 mois", s.Answers.BabyAge)
}

func TestRequestClose(t *testing.T) {
	closed := New().RequestClose()
	assert.True(t, closed.Closed)
	assert.False(t, closed.ConfirmingClose)

	s := at(t, StepMotivation)
	confirming := s.RequestClose()
	assert.True(t, confirming.ConfirmingClose)
	assert.False(t, confirming.Closed)

	// Navigation and answers are locked while confirming
	assert.Equal(t, confirming, confirming.Advance())
	assert.Equal(t, confirming, confirming.Retreat())
	_, err := confirming.SelectSingle(qualification.FieldMotivation, "equipe")
	assert.ErrorIs(t, err, ErrBusy)

	assert.Equal(t, s, confirming.CancelClose(), "cancel must restore the state exactly")

	discarded := confirming.ConfirmClose()
	assert.True(t, discarded.Closed)
	assert.Equal(t, qualification.Answers{}, discarded.Answers)
	assert.Equal(t, StepWelcome, discarded.Current)
}

func TestSubmit(t *testing.T) {
	s := fill(t, at(t, StepContact))

	inFlight, req, ok := s.BeginSubmit()
	require.True(t, ok)
	assert.True(t, inFlight.Submitting)
	assert.True(t, req.IsQualificationComplete)
	assert.True(t, req.AcceptsEmails)
	assert.Equal(t, "3-6 mois", req.BabyAge)
	assert.Equal(t, []string{"sommeil"}, req.MainChallenges)

	// No second submission or close while in flight
	_, _, ok = inFlight.BeginSubmit()
	assert.False(t, ok)
	assert.Equal(t, inFlight, inFlight.RequestClose())
	assert.Equal(t, inFlight, inFlight.Retreat())

	t.Run("failure keeps answers", func(t *testing.T) {
		failed := inFlight.ResolveSubmit(&client.APIError{StatusCode: 500, Message: "Email already exists"})
		assert.False(t, failed.Submitting)
		assert.Equal(t, StepContact, failed.Current)
		assert.Equal(t, "Email already exists", failed.Error)
		assert.Equal(t, s.Answers, failed.Answers)
		assert.True(t, failed.CanSubmit(), "retry must be possible")
	})

	t.Run("connection failure", func(t *testing.T) {
		failed := inFlight.ResolveSubmit(errors.New("dial tcp: connection refused"))
		assert.Equal(t, client.MsgConnectionFailed, failed.Error)
	})

	t.Run("success", func(t *testing.T) {
		done := inFlight.ResolveSubmit(nil)
		assert.True(t, done.Done())
		assert.Empty(t, done.Error)
		assert.Equal(t, Contact{Email: "camille@example.com", FirstName: "Camille"}, done.Contact())
	})
}
