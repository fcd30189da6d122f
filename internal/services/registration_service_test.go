package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/registration"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type registrationFixture struct {
	users          *testutil.MockUserRepository
	qualifications *testutil.MockQualificationRepository
	subscriptions  *testutil.MockSubscriptionRepository
	service        *RegistrationService
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		users:          testutil.NewMockUserRepository(),
		qualifications: testutil.NewMockQualificationRepository(),
		subscriptions:  testutil.NewMockSubscriptionRepository(),
	}
	f.service = NewRegistrationService(f.users, f.qualifications, f.subscriptions, testutil.NewTestLogger())
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func completeAnswers() qualification.Answers {
	return qualification.Answers{
		BabyAge:          "3-6 mois",
		RelationDuration: "2-5 ans",
		RelationStatus:   "tendu",
		MainChallenges:   []string{"sommeil", "communication"},
		UrgencyLevel:     "empire",
		Motivation:       "equipe",
	}
}

func TestCompleteAnswersUseVocabulary(t *testing.T) {
	a := completeAnswers()
	scalars := map[qualification.Field]string{
		qualification.FieldBabyAge:          a.BabyAge,
		qualification.FieldRelationDuration: a.RelationDuration,
		qualification.FieldRelationStatus:   a.RelationStatus,
		qualification.FieldUrgencyLevel:     a.UrgencyLevel,
		qualification.FieldMotivation:       a.Motivation,
	}
	for field, value := range scalars {
		if !qualification.IsValid(field, value) {
			t.Errorf("%s = %q is not a declared option", field, value)
		}
	}
	for _, c := range a.MainChallenges {
		if !qualification.IsValid(qualification.FieldMainChallenges, c) {
			t.Errorf("challenge %q is not a declared option", c)
		}
	}
}

func TestRegistrationService_Register(t *testing.T) {
	tests := []struct {
		name              string
		req               registration.Request
		wantQualification bool
		wantSubscriptions int
		wantTemplate      string
		wantFirstName     string
	}{
		{
			name:              "landing form email only",
			req:               registration.Request{Email: "a@b.co", AcceptsEmails: true},
			wantSubscriptions: 1,
			wantTemplate:      notification.TemplateInterest,
			wantFirstName:     notification.FallbackFirstName,
		},
		{
			name: "completed wizard",
			req: registration.Request{
				Email:                   "marie@example.fr",
				FirstName:               "  Marie ",
				Answers:                 completeAnswers(),
				AcceptsEmails:           true,
				IsQualificationComplete: true,
			},
			wantQualification: true,
			wantSubscriptions: 1,
			wantTemplate:      notification.TemplateOnboarding,
			wantFirstName:     "Marie",
		},
		{
			name: "completed wizard without consent",
			req: registration.Request{
				Email:                   "paul@example.fr",
				FirstName:               "Paul",
				Answers:                 completeAnswers(),
				IsQualificationComplete: true,
			},
			wantQualification: true,
			wantTemplate:      notification.TemplateOnboarding,
			wantFirstName:     "Paul",
		},
		{
			name: "flag set without answers records nothing",
			req: registration.Request{
				Email:                   "c@d.co",
				IsQualificationComplete: true,
			},
			wantTemplate:  notification.TemplateOnboarding,
			wantFirstName: notification.FallbackFirstName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture()

			result, err := f.service.Register(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}

			if !result.Created {
				t.Error("Register() Created = false, want true")
			}
			if result.User.SubscriptionStatus != user.StatusTrial {
				t.Errorf("status = %q, want %q", result.User.SubscriptionStatus, user.StatusTrial)
			}
			wantTrialEnd := fixedNow.Add(user.TrialPeriod)
			if result.User.TrialEndsAt == nil || !result.User.TrialEndsAt.Equal(wantTrialEnd) {
				t.Errorf("trial end = %v, want %v", result.User.TrialEndsAt, wantTrialEnd)
			}

			if got := result.Qualification != nil; got != tt.wantQualification {
				t.Errorf("qualification recorded = %v, want %v", got, tt.wantQualification)
			}
			if got := len(f.qualifications.Qualifications); got != boolToInt(tt.wantQualification) {
				t.Errorf("stored qualifications = %d", got)
			}
			if got := len(f.subscriptions.Subscriptions); got != tt.wantSubscriptions {
				t.Errorf("stored subscriptions = %d, want %d", got, tt.wantSubscriptions)
			}

			if result.Welcome.To != tt.req.Email {
				t.Errorf("welcome to = %q, want %q", result.Welcome.To, tt.req.Email)
			}
			if result.Welcome.FirstName != tt.wantFirstName {
				t.Errorf("welcome first name = %q, want %q", result.Welcome.FirstName, tt.wantFirstName)
			}
			if got := result.Welcome.TemplateFor(); got != tt.wantTemplate {
				t.Errorf("template = %q, want %q", got, tt.wantTemplate)
			}
		})
	}
}

func TestRegistrationService_RegisterExistingUser(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()

	first, err := f.service.Register(ctx, registration.Request{Email: "a@b.co", AcceptsEmails: true})
	if err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	second, err := f.service.Register(ctx, registration.Request{
		Email:                   "a@b.co",
		FirstName:               "Léa",
		Answers:                 completeAnswers(),
		AcceptsEmails:           true,
		IsQualificationComplete: true,
	})
	if err != nil {
		t.Fatalf("second Register() error = %v", err)
	}

	if second.Created {
		t.Error("second Register() Created = true, want false")
	}
	if second.User.ID != first.User.ID {
		t.Errorf("user id = %q, want %q", second.User.ID, first.User.ID)
	}
	if second.User.FirstName != "Léa" {
		t.Errorf("first name = %q, want Léa", second.User.FirstName)
	}
	if f.users.CreateCalls != 1 {
		t.Errorf("user creates = %d, want 1", f.users.CreateCalls)
	}
	if len(f.users.Users) != 1 {
		t.Errorf("stored users = %d, want 1", len(f.users.Users))
	}
	// The duplicate consent is absorbed
	if len(f.subscriptions.Subscriptions) != 1 {
		t.Errorf("stored subscriptions = %d, want 1", len(f.subscriptions.Subscriptions))
	}
	if f.subscriptions.CreateCalls != 2 {
		t.Errorf("subscription creates = %d, want 2", f.subscriptions.CreateCalls)
	}
	if len(f.qualifications.Qualifications) != 1 {
		t.Errorf("stored qualifications = %d, want 1", len(f.qualifications.Qualifications))
	}
}

func TestRegistrationService_RegisterKeepsFirstNameWhenBlank(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()

	if _, err := f.service.Register(ctx, registration.Request{Email: "a@b.co", FirstName: "Léa"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	result, err := f.service.Register(ctx, registration.Request{Email: "a@b.co"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.FirstName != "Léa" {
		t.Errorf("first name = %q, want Léa", result.User.FirstName)
	}
	if f.users.UpdateCalls != 0 {
		t.Errorf("updates = %d, want 0", f.users.UpdateCalls)
	}
}

// racingUserRepository hides existing users from lookups, as a concurrent
// insert between lookup and create would
type racingUserRepository struct {
	*testutil.MockUserRepository
}

func (r racingUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, errors.NotFound("User")
}

func TestRegistrationService_RegisterConcurrentDuplicate(t *testing.T) {
	users := testutil.NewMockUserRepository()
	if err := users.Create(context.Background(), user.NewTrialUser("a@b.co", "", fixedNow)); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	service := NewRegistrationService(
		racingUserRepository{users},
		testutil.NewMockQualificationRepository(),
		testutil.NewMockSubscriptionRepository(),
		testutil.NewTestLogger(),
	)

	_, err := service.Register(context.Background(), registration.Request{Email: "a@b.co"})
	appErr, ok := errors.As(err)
	if !ok {
		t.Fatalf("Register() error = %v, want AppError", err)
	}
	if appErr.Message != errors.MsgEmailAlreadyExists {
		t.Errorf("message = %q, want %q", appErr.Message, errors.MsgEmailAlreadyExists)
	}
	if appErr.StatusCode != 500 {
		t.Errorf("status = %d, want 500", appErr.StatusCode)
	}
}

func TestRegistrationService_RegisterStoreFailures(t *testing.T) {
	boom := stderrors.New("connection reset")

	t.Run("lookup", func(t *testing.T) {
		f := newRegistrationFixture()
		f.users.GetError = boom

		if _, err := f.service.Register(context.Background(), registration.Request{Email: "a@b.co"}); !stderrors.Is(err, boom) {
			t.Errorf("Register() error = %v, want %v", err, boom)
		}
	})

	t.Run("qualification", func(t *testing.T) {
		f := newRegistrationFixture()
		f.qualifications.CreateError = boom

		_, err := f.service.Register(context.Background(), registration.Request{
			Email:                   "a@b.co",
			Answers:                 completeAnswers(),
			AcceptsEmails:           true,
			IsQualificationComplete: true,
		})
		if !stderrors.Is(err, boom) {
			t.Errorf("Register() error = %v, want %v", err, boom)
		}
		if len(f.subscriptions.Subscriptions) != 0 {
			t.Error("subscription recorded after qualification failure")
		}
	})

	t.Run("subscription failure is not fatal", func(t *testing.T) {
		f := newRegistrationFixture()
		f.subscriptions.CreateError = boom

		result, err := f.service.Register(context.Background(), registration.Request{Email: "a@b.co", AcceptsEmails: true})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if result.User == nil {
			t.Error("Register() returned no user")
		}
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
