package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sleepharmony/landing/internal/auth"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/utils"
)

// ClaimsKey is the context key for service token claims
const ClaimsKey ContextKey = "claims"

// RequireScope returns a middleware that accepts only bearer service tokens
// carrying scope
func RequireScope(secret, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			claims, err := auth.ParseClaims(tokenStr, secret)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			if !claims.HasScope(scope) {
				utils.WriteError(w, errors.Forbidden(auth.ErrMissingScope.Error()+": "+scope))
				return
			}

			AddLogField(w, "subject", claims.Subject)
			AddLogField(w, "token_id", claims.ID)

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims extracts the service token claims from the request context
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
