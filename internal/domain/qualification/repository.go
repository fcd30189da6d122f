package qualification

import "context"

// Repository defines the interface for qualification data access
type Repository interface {
	// Create inserts a qualification and assigns its ID
	Create(ctx context.Context, q *Qualification) error

	// ListByUser returns a user's qualifications, oldest first
	ListByUser(ctx context.Context, userID string) ([]*Qualification, error)
}
