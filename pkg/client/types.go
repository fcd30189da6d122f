package client

import "time"

// User is a registered email identity
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Qualification is a recorded questionnaire
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

// Subscription is an email consent record
type Subscription struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Email          string     `json:"email"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}

// Profile is a user with everything recorded against it
type Profile struct {
	User           *User            `json:"user"`
	Qualifications []*Qualification `json:"qualifications"`
	Subscriptions  []*Subscription  `json:"subscriptions"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// envelope is the success wrapper of the admin and health endpoints
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}
