package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/sleepharmony/landing/internal/repository/postgres"
	"github.com/sleepharmony/landing/internal/services"
	"github.com/sleepharmony/landing/internal/testutil"
)

func newStoreBackedHandler(t *testing.T, db *sql.DB) *RegistrationHandler {
	t.Helper()
	log := testutil.NewTestLogger()
	service := services.NewRegistrationService(
		postgres.NewUserRepository(db),
		postgres.NewQualificationRepository(db, "sqlite"),
		postgres.NewSubscriptionRepository(db),
		log,
	)
	return NewRegistrationHandler(service, testutil.NewMockDispatcher(), log, newTestValidator(t))
}

func countRows(t *testing.T, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func TestRegistrationHandler_RepeatedEmailAgainstStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	h := newStoreBackedHandler(t, db)

	for i := 0; i < 2; i++ {
		rr := postJSON(t, h.Register, map[string]interface{}{"email": "a@b.com", "acceptsEmails": true})
		if rr.Code != http.StatusOK {
			t.Fatalf("call %d: status = %d, body = %s", i, rr.Code, rr.Body.String())
		}
		body := decodeBody(t, rr)
		if body["success"] != true {
			t.Fatalf("call %d: success = %v", i, body["success"])
		}
		u, _ := body["user"].(map[string]interface{})
		if u["subscription_status"] != "trial" {
			t.Errorf("call %d: subscription_status = %v, want trial", i, u["subscription_status"])
		}
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM users WHERE email = ?", "a@b.com"); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM email_subscriptions WHERE email = ?", "a@b.com"); n != 1 {
		t.Errorf("subscriptions = %d, want 1", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM qualifications"); n != 0 {
		t.Errorf("qualifications = %d, want 0", n)
	}

	var status string
	if err := db.QueryRow("SELECT subscription_status FROM users WHERE email = ?", "a@b.com").Scan(&status); err != nil {
		t.Fatalf("status query failed: %v", err)
	}
	if status != "trial" {
		t.Errorf("stored status = %q, want trial", status)
	}
}

func TestRegistrationHandler_QualificationAgainstStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	h := newStoreBackedHandler(t, db)

	if rr := postJSON(t, h.Register, map[string]interface{}{"email": "a@b.com"}); rr.Code != http.StatusOK {
		t.Fatalf("first call: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr := postJSON(t, h.Register, map[string]interface{}{
		"email":                   "a@b.com",
		"firstName":               "Camille",
		"babyAge":                 "3-6 mois",
		"acceptsEmails":           true,
		"isQualificationComplete": true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("second call: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	q, ok := body["qualification"].(map[string]interface{})
	if !ok {
		t.Fatalf("qualification = %v, want a record", body["qualification"])
	}
	if q["baby_age"] != "3-6 mois" {
		t.Errorf("baby_age = %v, want 3-6 mois", q["baby_age"])
	}
	if challenges, _ := q["main_challenges"].([]interface{}); challenges == nil || len(challenges) != 0 {
		t.Errorf("main_challenges = %v, want []", q["main_challenges"])
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM users"); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM qualifications"); n != 1 {
		t.Errorf("qualifications = %d, want 1", n)
	}

	var firstName string
	if err := db.QueryRow("SELECT first_name FROM users WHERE email = ?", "a@b.com").Scan(&firstName); err != nil {
		t.Fatalf("first name query failed: %v", err)
	}
	if firstName != "Camille" {
		t.Errorf("first_name = %q, want Camille", firstName)
	}
}
