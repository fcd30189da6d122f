package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/domain/subscription"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
)

func duplicateKey(message string) error {
	return errors.Wrap(fmt.Errorf("%w: %s", errors.ErrDuplicateKey, message),
		errors.ErrCodeConflict, message, 409)
}

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users       map[string]*user.User
	EmailIndex  map[string]*user.User
	CreateError error
	GetError    error
	UpdateError error
	CreateCalls int
	UpdateCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[string]*user.User),
		EmailIndex: make(map[string]*user.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.EmailIndex[u.Email]; ok {
		return duplicateKey("duplicate key value violates unique constraint \"users_email_key\"")
	}
	u.ID = uuid.NewString()
	stored := *u
	m.Users[u.ID] = &stored
	m.EmailIndex[u.Email] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	out := *u
	return &out, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	out := *u
	return &out, nil
}

func (m *MockUserRepository) UpdateFirstName(ctx context.Context, id, firstName string, at time.Time) error {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.FirstName = firstName
	u.UpdatedAt = at
	return nil
}

func (m *MockUserRepository) UpdateSubscriptionStatus(ctx context.Context, id, status string, at time.Time) error {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.SubscriptionStatus = status
	u.UpdatedAt = at
	return nil
}

func (m *MockUserRepository) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	if m.UpdateError != nil {
		return 0, m.UpdateError
	}
	var n int64
	for _, u := range m.Users {
		if u.SubscriptionStatus == user.StatusTrial && u.TrialEndsAt != nil && !u.TrialEndsAt.After(now) {
			u.SubscriptionStatus = user.StatusExpired
			u.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// MockQualificationRepository is a mock implementation of qualification.Repository
type MockQualificationRepository struct {
	Qualifications []*qualification.Qualification
	CreateError    error
	ListError      error
}

func NewMockQualificationRepository() *MockQualificationRepository {
	return &MockQualificationRepository{}
}

func (m *MockQualificationRepository) Create(ctx context.Context, q *qualification.Qualification) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	q.ID = uuid.NewString()
	m.Qualifications = append(m.Qualifications, q)
	return nil
}

func (m *MockQualificationRepository) ListByUser(ctx context.Context, userID string) ([]*qualification.Qualification, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*qualification.Qualification
	for _, q := range m.Qualifications {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

// MockSubscriptionRepository is a mock implementation of subscription.Repository
type MockSubscriptionRepository struct {
	Subscriptions []*subscription.Subscription
	CreateError   error
	ListError     error
	CreateCalls   int
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Subscriptions {
		if existing.UserID == s.UserID && existing.Email == s.Email {
			return duplicateKey("UNIQUE constraint failed: email_subscriptions.user_id, email_subscriptions.email")
		}
	}
	s.ID = uuid.NewString()
	m.Subscriptions = append(m.Subscriptions, s)
	return nil
}

func (m *MockSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*subscription.Subscription
	for _, s := range m.Subscriptions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// MockSender records sent messages
type MockSender struct {
	mu       sync.Mutex
	Messages []*notification.Message
	SendErr  error
}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(ctx context.Context, msg *notification.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return "", m.SendErr
	}
	m.Messages = append(m.Messages, msg)
	return fmt.Sprintf("mock_%d", len(m.Messages)), nil
}

func (m *MockSender) Name() string { return "mock" }

// Sent returns a copy of the messages sent so far
func (m *MockSender) Sent() []*notification.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*notification.Message(nil), m.Messages...)
}

// MockNotifier records welcome notifications
type MockNotifier struct {
	mu       sync.Mutex
	Requests []notification.WelcomeRequest
	Err      error
	Block    chan struct{}
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyWelcome(ctx context.Context, req notification.WelcomeRequest) error {
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	return m.Err
}

// Received returns a copy of the notifications received so far
func (m *MockNotifier) Received() []notification.WelcomeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.WelcomeRequest(nil), m.Requests...)
}

// MockDispatcher records dispatched notifications without running them
type MockDispatcher struct {
	mu       sync.Mutex
	Requests []notification.WelcomeRequest
	Reject   bool
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Dispatch(req notification.WelcomeRequest) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Reject {
		return false
	}
	m.Requests = append(m.Requests, req)
	return true
}

// Dispatched returns a copy of the dispatched notifications
func (m *MockDispatcher) Dispatched() []notification.WelcomeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.WelcomeRequest(nil), m.Requests...)
}
