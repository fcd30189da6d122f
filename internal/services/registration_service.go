package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/unicode/norm"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/registration"
	"github.com/sleepharmony/landing/internal/domain/subscription"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/metrics"
	"github.com/sleepharmony/landing/internal/pkg/tracing"
)

// RegistrationService implements registration.Service
type RegistrationService struct {
	users          user.Repository
	qualifications qualification.Repository
	subscriptions  subscription.Repository
	logger         *logger.Logger
	now            func() time.Time
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	users user.Repository,
	qualifications qualification.Repository,
	subscriptions subscription.Repository,
	log *logger.Logger,
) *RegistrationService {
	return &RegistrationService{
		users:          users,
		qualifications: qualifications,
		subscriptions:  subscriptions,
		logger:         log,
		now:            time.Now,
	}
}

// Register finds or creates the user for req.Email, records the qualification
// and subscription carried by req, and returns the welcome notification to
// dispatch. It never sends the notification itself.
func (s *RegistrationService) Register(ctx context.Context, req registration.Request) (*registration.Result, error) {
	ctx, span := tracing.Start(ctx, "registration.Register")
	defer span.End()

	firstName := normalizeFirstName(req.FirstName)
	span.SetAttributes(
		attribute.Bool("registration.qualification_complete", req.IsQualificationComplete),
		attribute.Bool("registration.accepts_emails", req.AcceptsEmails),
	)

	u, created, err := s.upsertUser(ctx, req.Email, firstName)
	if err != nil {
		metrics.RecordRegistration("failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert user")
		return nil, err
	}

	result := &registration.Result{
		User:    u,
		Created: created,
		Welcome: notification.NewWelcomeRequest(req.Email, firstName, req.IsQualificationComplete),
	}

	if req.WantsQualification() {
		q := qualification.New(u.ID, req.Answers, s.now())
		if err := s.qualifications.Create(ctx, q); err != nil {
			s.logger.WithError(err).With("user_id", u.ID).Error("Failed to create qualification")
			metrics.RecordRegistration("failed")
			span.RecordError(err)
			span.SetStatus(codes.Error, "create qualification")
			return nil, err
		}
		metrics.RecordQualification()
		result.Qualification = q
	}

	if req.AcceptsEmails {
		s.subscribe(ctx, u.ID, req.Email)
	}

	outcome := "existing"
	if created {
		outcome = "created"
	}
	metrics.RecordRegistration(outcome)
	span.SetAttributes(attribute.String("registration.outcome", outcome))

	s.logger.WithFields(map[string]interface{}{
		"user_id":       u.ID,
		"created":       created,
		"qualification": result.Qualification != nil,
	}).Info("Registration completed")

	return result, nil
}

func (s *RegistrationService) upsertUser(ctx context.Context, email, firstName string) (*user.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.IsNotFound(err) {
		s.logger.WithError(err).Error("Failed to look up user")
		return nil, false, err
	}

	if existing == nil {
		u := user.NewTrialUser(email, firstName, s.now())
		if err := s.users.Create(ctx, u); err != nil {
			if errors.IsDuplicateKey(err) {
				s.logger.With("email", email).Warn("Concurrent registration for the same email")
				return nil, false, errors.EmailAlreadyExists(err)
			}
			s.logger.WithError(err).Error("Failed to create user")
			return nil, false, err
		}

		s.logger.With("user_id", u.ID).Info("User created")
		return u, true, nil
	}

	if firstName != "" && firstName != existing.FirstName {
		at := s.now()
		if err := s.users.UpdateFirstName(ctx, existing.ID, firstName, at); err != nil {
			s.logger.WithError(err).With("user_id", existing.ID).Error("Failed to update first name")
			return nil, false, err
		}
		existing.FirstName = firstName
		existing.UpdatedAt = at
	}

	return existing, false, nil
}

// subscribe records email consent. Failures never abort the registration.
func (s *RegistrationService) subscribe(ctx context.Context, userID, email string) {
	err := s.subscriptions.Create(ctx, &subscription.Subscription{
		UserID:       userID,
		Email:        email,
		SubscribedAt: s.now(),
	})

	switch {
	case err == nil:
		metrics.RecordSubscription("created")
	case errors.IsDuplicateKey(err):
		metrics.RecordSubscription("existing")
		s.logger.With("user_id", userID).Debug("Email subscription already exists")
	default:
		metrics.RecordSubscription("failed")
		s.logger.WithError(err).With("user_id", userID).Warn("Failed to create email subscription")
	}
}

func normalizeFirstName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
