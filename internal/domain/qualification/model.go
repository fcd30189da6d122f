package qualification

import "time"

// Answers holds the questionnaire answers of one wizard run
type Answers struct {
	BabyAge          string   `json:"babyAge,omitempty"`
	RelationDuration string   `json:"relationDuration,omitempty"`
	RelationStatus   string   `json:"relationStatus,omitempty"`
	MainChallenges   []string `json:"mainChallenges,omitempty"`
	UrgencyLevel     string   `json:"urgencyLevel,omitempty"`
	Motivation       string   `json:"motivation,omitempty"`
}

// Qualification is an append-only snapshot of a user's answers
type Qualification struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	BabyAge          string    `json:"baby_age"`
	RelationDuration string    `json:"relation_duration"`
	RelationStatus   string    `json:"relation_status"`
	MainChallenges   []string  `json:"main_challenges"`
	UrgencyLevel     string    `json:"urgency_level"`
	Motivation       string    `json:"motivation"`
	CreatedAt        time.Time `json:"created_at"`
}

// New builds a qualification for userID from answers. Missing answers are
// stored as empty strings and an empty challenge set.
func New(userID string, a Answers, now time.Time) *Qualification {
	challenges := a.MainChallenges
	if challenges == nil {
		challenges = []string{}
	}
	return &Qualification{
		UserID:           userID,
		BabyAge:          a.BabyAge,
		RelationDuration: a.RelationDuration,
		RelationStatus:   a.RelationStatus,
		MainChallenges:   append([]string(nil), challenges...),
		UrgencyLevel:     a.UrgencyLevel,
		Motivation:       a.Motivation,
		CreatedAt:        now,
	}
}
