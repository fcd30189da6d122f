package registration

import "context"

// Service defines the registration upsert
type Service interface {
	// Register finds or creates the user for req.Email and records the
	// qualification and subscription it carries
	Register(ctx context.Context, req Request) (*Result, error)
}
