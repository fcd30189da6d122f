package user

import "time"

// User represents a registered email identity
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Subscription statuses
const (
	StatusTrial     = "trial"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// TrialPeriod is the length of the trial granted at registration
const TrialPeriod = 7 * 24 * time.Hour

// Statuses lists every subscription status in lifecycle order
func Statuses() []string {
	return []string{StatusTrial, StatusActive, StatusCancelled, StatusExpired}
}

// IsValidStatus reports whether s is a known subscription status
func IsValidStatus(s string) bool {
	for _, status := range Statuses() {
		if status == s {
			return true
		}
	}
	return false
}

// NewTrialUser builds a user starting its trial at now
func NewTrialUser(email, firstName string, now time.Time) *User {
	trialEnd := now.Add(TrialPeriod)
	return &User{
		Email:              email,
		FirstName:          firstName,
		SubscriptionStatus: StatusTrial,
		TrialEndsAt:        &trialEnd,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
