package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create inserts a new user and assigns its ID. A duplicate email yields
	// an error matching errors.ErrDuplicateKey.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email. A missing user yields a
	// not found AppError.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateFirstName sets the first name and bumps updated_at
	UpdateFirstName(ctx context.Context, id, firstName string, at time.Time) error

	// UpdateSubscriptionStatus sets the subscription status and bumps updated_at
	UpdateSubscriptionStatus(ctx context.Context, id, status string, at time.Time) error

	// ExpireTrials moves trial users whose trial ended before now to expired
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}
