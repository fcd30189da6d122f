package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, first_name, subscription_status, trial_ends_at, created_at, updated_at`

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = user.StatusTrial
	}
	id := uuid.NewString()

	query := `
		INSERT INTO users (id, email, first_name, subscription_status, trial_ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		id, u.Email, u.FirstName, u.SubscriptionStatus, unixOrNull(u.TrialEndsAt),
		u.CreatedAt.Unix(), u.UpdatedAt.Unix(),
	)
	if err != nil {
		return storeError("Failed to create user", err)
	}

	u.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// UpdateFirstName updates a user's first name
func (r *UserRepository) UpdateFirstName(ctx context.Context, id, firstName string, at time.Time) error {
	query := `UPDATE users SET first_name = $1, updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, "Failed to update user", query, firstName, at.Unix(), id)
}

// UpdateSubscriptionStatus updates a user's subscription status
func (r *UserRepository) UpdateSubscriptionStatus(ctx context.Context, id, status string, at time.Time) error {
	query := `UPDATE users SET subscription_status = $1, updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, "Failed to update subscription status", query, status, at.Unix(), id)
}

// ExpireTrials moves lapsed trials to expired
func (r *UserRepository) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET subscription_status = $1, updated_at = $2
		WHERE subscription_status = $3 AND trial_ends_at IS NOT NULL AND trial_ends_at <= $4
	`

	result, err := r.db.ExecContext(ctx, query, user.StatusExpired, now.Unix(), user.StatusTrial, now.Unix())
	if err != nil {
		return 0, storeError("Failed to expire trials", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get rows affected", err)
	}
	return n, nil
}

func (r *UserRepository) execOne(ctx context.Context, msg, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeError(msg, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*user.User, error) {
	var u user.User
	var trialEndsAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.SubscriptionStatus, &trialEndsAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, storeError("Failed to get user", err)
	}

	if trialEndsAt.Valid {
		t := time.Unix(trialEndsAt.Int64, 0)
		u.TrialEndsAt = &t
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)

	return &u, nil
}

func unixOrNull(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}
