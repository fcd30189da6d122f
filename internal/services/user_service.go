package services

import (
	"context"
	"time"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/subscription"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/metrics"
)

// UserService implements user.Service
type UserService struct {
	users          user.Repository
	qualifications qualification.Repository
	subscriptions  subscription.Repository
	logger         *logger.Logger
	now            func() time.Time
}

// NewUserService creates a new user service
func NewUserService(
	users user.Repository,
	qualifications qualification.Repository,
	subscriptions subscription.Repository,
	log *logger.Logger,
) *UserService {
	return &UserService{
		users:          users,
		qualifications: qualifications,
		subscriptions:  subscriptions,
		logger:         log,
		now:            time.Now,
	}
}

// GetProfile retrieves a user with its qualifications and subscriptions
func (s *UserService) GetProfile(ctx context.Context, email string) (*user.Profile, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	quals, err := s.qualifications.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	subs, err := s.subscriptions.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	if quals == nil {
		quals = []*qualification.Qualification{}
	}
	if subs == nil {
		subs = []*subscription.Subscription{}
	}

	return &user.Profile{User: u, Qualifications: quals, Subscriptions: subs}, nil
}

// SetSubscriptionStatus changes a user's subscription status
func (s *UserService) SetSubscriptionStatus(ctx context.Context, id, status string) (*user.User, error) {
	if !user.IsValidStatus(status) {
		return nil, errors.BadRequest("Invalid subscription status: " + status)
	}

	if err := s.users.UpdateSubscriptionStatus(ctx, id, status, s.now()); err != nil {
		s.logger.WithError(err).With("user_id", id).Error("Failed to update subscription status")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": id,
		"status":  status,
	}).Info("Subscription status updated")

	return s.users.GetByID(ctx, id)
}

// ExpireTrials moves every lapsed trial to expired
func (s *UserService) ExpireTrials(ctx context.Context) (int64, error) {
	n, err := s.users.ExpireTrials(ctx, s.now())
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to expire trials")
		return 0, err
	}

	metrics.RecordTrialsExpired(n)
	if n > 0 {
		s.logger.With("count", n).Info("Trials expired")
	}
	return n, nil
}
