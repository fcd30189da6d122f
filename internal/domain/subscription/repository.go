package subscription

import "context"

// Repository defines the interface for email subscription data access
type Repository interface {
	// Create inserts a subscription and assigns its ID. An existing
	// (user, email) pair yields an error matching errors.ErrDuplicateKey.
	Create(ctx context.Context, s *Subscription) error

	// ListByUser returns a user's subscriptions
	ListByUser(ctx context.Context, userID string) ([]*Subscription, error)
}
