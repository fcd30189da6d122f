package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sleepharmony/landing/internal/api/dto"
	"github.com/sleepharmony/landing/internal/api/handlers"
	"github.com/sleepharmony/landing/internal/api/middleware"
	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/pkg/validator"
	"github.com/sleepharmony/landing/internal/services"
	"github.com/sleepharmony/landing/internal/testutil"
)

func newTestRouter(t *testing.T, trustProxy bool) http.Handler {
	t.Helper()
	log := testutil.NewTestLogger()

	val := validator.New()
	if err := dto.RegisterValidations(val); err != nil {
		t.Fatalf("failed to register validations: %v", err)
	}

	registration := services.NewRegistrationService(
		testutil.NewMockUserRepository(),
		testutil.NewMockQualificationRepository(),
		testutil.NewMockSubscriptionRepository(),
		log,
	)

	cfg := &config.Config{}
	cfg.Auth.Secret = "test-secret"
	cfg.Server.TrustProxy = trustProxy

	h := &Handlers{
		Registration: handlers.NewRegistrationHandler(registration, testutil.NewMockDispatcher(), log, val),
	}

	// One request per client, then 429
	limiter := middleware.NewRateLimiter(0.001, 1)
	return New(cfg, log, h, limiter)
}

func register(r http.Handler, i int, forwardedFor string) int {
	body := fmt.Sprintf(`{"email":"user%d@example.com"}`, i)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	r := newTestRouter(t, false)

	if code := register(r, 1, "198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", code)
	}
	// Rotating the header must not buy a fresh bucket
	if code := register(r, 2, "198.51.100.2"); code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", code)
	}
}

func TestRateLimitUsesForwardedForBehindTrustedProxy(t *testing.T) {
	r := newTestRouter(t, true)

	if code := register(r, 1, "198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want 200", code)
	}
	if code := register(r, 2, "198.51.100.2"); code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", code)
	}
	if code := register(r, 3, "198.51.100.2"); code != http.StatusTooManyRequests {
		t.Errorf("second client again: status = %d, want 429", code)
	}
}
