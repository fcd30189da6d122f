package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func TestMintAndParse(t *testing.T) {
	tests := []struct {
		name      string
		scopes    []string
		ttl       time.Duration
		parseWith string
		wantErr   error
		wantScope string
	}{
		{name: "valid welcome token", scopes: []string{ScopeWelcomeSend}, ttl: time.Hour, parseWith: secret, wantScope: ScopeWelcomeSend},
		{name: "valid admin token", scopes: []string{ScopeAdmin}, ttl: time.Hour, parseWith: secret, wantScope: ScopeAdmin},
		{name: "expired token", scopes: []string{ScopeAdmin}, ttl: -time.Minute, parseWith: secret, wantErr: jwt.ErrTokenExpired},
		{name: "wrong secret", scopes: []string{ScopeAdmin}, ttl: time.Hour, parseWith: "other", wantErr: jwt.ErrTokenSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := MintServiceToken("registration", "sleep-harmony", secret, tt.scopes, tt.ttl)
			if err != nil {
				t.Fatalf("MintServiceToken() error = %v", err)
			}

			claims, err := ParseClaims(token, tt.parseWith)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseClaims() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClaims() error = %v", err)
			}
			if !claims.HasScope(tt.wantScope) {
				t.Errorf("claims %v lack scope %s", claims.Scopes, tt.wantScope)
			}
			if claims.Subject != "registration" {
				t.Errorf("Subject = %q", claims.Subject)
			}
		})
	}
}

func TestClaims_HasScope(t *testing.T) {
	c := &Claims{Scopes: []string{ScopeWelcomeSend}}
	if c.HasScope(ScopeAdmin) {
		t.Error("HasScope(admin) = true, want false")
	}
	if !c.HasScope(ScopeWelcomeSend) {
		t.Error("HasScope(welcome:send) = false, want true")
	}
}
