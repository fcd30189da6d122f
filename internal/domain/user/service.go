package user

import (
	"context"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/subscription"
)

// Profile is a user with everything recorded against it
type Profile struct {
	User           *User                        `json:"user"`
	Qualifications []*qualification.Qualification `json:"qualifications"`
	Subscriptions  []*subscription.Subscription  `json:"subscriptions"`
}

// Service defines the interface for operator-facing user operations
type Service interface {
	// GetProfile retrieves a user and its records by email
	GetProfile(ctx context.Context, email string) (*Profile, error)

	// SetSubscriptionStatus changes a user's subscription status
	SetSubscriptionStatus(ctx context.Context, id, status string) (*User, error)

	// ExpireTrials expires every lapsed trial and returns how many changed
	ExpireTrials(ctx context.Context) (int64, error)
}
