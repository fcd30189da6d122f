package dto

import (
	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/registration"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/validator"
)

// RegisterRequest is the body of a registration call. Categorical answers are
// checked against the questionnaire vocabularies when present.
type RegisterRequest struct {
	Email                   string   `json:"email" validate:"required,email,max=254"`
	FirstName               string   `json:"firstName,omitempty" validate:"max=100"`
	BabyAge                 string   `json:"babyAge,omitempty" validate:"omitempty,baby_age"`
	RelationDuration        string   `json:"relationDuration,omitempty" validate:"omitempty,relation_duration"`
	RelationStatus          string   `json:"relationStatus,omitempty" validate:"omitempty,relation_status"`
	MainChallenges          []string `json:"mainChallenges,omitempty" validate:"omitempty,main_challenges"`
	UrgencyLevel            string   `json:"urgencyLevel,omitempty" validate:"omitempty,urgency_level"`
	Motivation              string   `json:"motivation,omitempty" validate:"omitempty,motivation"`
	AcceptsEmails           bool     `json:"acceptsEmails,omitempty"`
	IsQualificationComplete bool     `json:"isQualificationComplete,omitempty"`
}

// ToDomain converts the request to a registration request
func (r RegisterRequest) ToDomain() registration.Request {
	return registration.Request{
		Email:     r.Email,
		FirstName: r.FirstName,
		Answers: qualification.Answers{
			BabyAge:          r.BabyAge,
			RelationDuration: r.RelationDuration,
			RelationStatus:   r.RelationStatus,
			MainChallenges:   r.MainChallenges,
			UrgencyLevel:     r.UrgencyLevel,
			Motivation:       r.Motivation,
		},
		AcceptsEmails:           r.AcceptsEmails,
		IsQualificationComplete: r.IsQualificationComplete,
	}
}

// RegisterResponse is the body of a successful registration
type RegisterResponse struct {
	Success       bool                         `json:"success"`
	User          *user.User                   `json:"user"`
	Qualification *qualification.Qualification `json:"qualification"`
	Message       string                       `json:"message"`
}

// VocabularyTags maps validator tags to the questionnaire field they check
var VocabularyTags = map[string]qualification.Field{
	"baby_age":          qualification.FieldBabyAge,
	"relation_duration": qualification.FieldRelationDuration,
	"relation_status":   qualification.FieldRelationStatus,
	"main_challenges":   qualification.FieldMainChallenges,
	"urgency_level":     qualification.FieldUrgencyLevel,
	"motivation":        qualification.FieldMotivation,
}

// RegisterValidations installs the vocabulary and subscription status tags
// used by the request types
func RegisterValidations(v *validator.Validator) error {
	for tag, field := range VocabularyTags {
		if err := v.RegisterEnum(tag, qualification.Values(field)...); err != nil {
			return err
		}
	}
	return v.RegisterEnum("subscription_status", user.Statuses()...)
}
