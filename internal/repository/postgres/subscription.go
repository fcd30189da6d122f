package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sleepharmony/landing/internal/domain/subscription"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new email subscription repository
func NewSubscriptionRepository(db *sql.DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

// Create inserts an email subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now()
	}
	id := uuid.NewString()

	query := `
		INSERT INTO email_subscriptions (id, user_id, email, subscribed_at, unsubscribed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, id, s.UserID, s.Email, s.SubscribedAt.Unix(), unixOrNull(s.UnsubscribedAt))
	if err != nil {
		return storeError("Failed to create email subscription", err)
	}

	s.ID = id
	return nil
}

// ListByUser returns a user's email subscriptions
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	query := `
		SELECT id, user_id, email, subscribed_at, unsubscribed_at
		FROM email_subscriptions WHERE user_id = $1
		ORDER BY subscribed_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeError("Failed to list email subscriptions", err)
	}
	defer rows.Close()

	var out []*subscription.Subscription
	for rows.Next() {
		var s subscription.Subscription
		var subscribedAt int64
		var unsubscribedAt sql.NullInt64

		if err := rows.Scan(&s.ID, &s.UserID, &s.Email, &subscribedAt, &unsubscribedAt); err != nil {
			return nil, storeError("Failed to scan email subscription", err)
		}

		s.SubscribedAt = time.Unix(subscribedAt, 0)
		if unsubscribedAt.Valid {
			t := time.Unix(unsubscribedAt.Int64, 0)
			s.UnsubscribedAt = &t
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("Failed to list email subscriptions", err)
	}

	return out, nil
}
