package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/response"
)

// IdentityLookup resolves a verified email claim to a local account.
// Implementations return auth.ErrUserNotFound or auth.ErrUserNotApproved
// when the account may not act.
type IdentityLookup func(ctx context.Context, email string) (auth.Identity, error)

// Authenticate is the bearer-token gate: verify the token, resolve the
// local user row, reject unapproved accounts, and attach the Identity to
// the request context. Token failures are 401 with distinct reasons;
// account failures are 403. The gate always fails closed.
func Authenticate(verifier auth.Verifier, lookup IdentityLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if raw == "" {
				response.Error(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					response.Error(w, http.StatusUnauthorized, "Token expired")
				case errors.Is(err, auth.ErrTokenMalformed):
					response.Error(w, http.StatusUnauthorized, "Invalid token format")
				default:
					response.Error(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			if claims.Email == "" {
				response.Error(w, http.StatusUnauthorized, "Token does not contain an email")
				return
			}

			ident, err := lookup(r.Context(), claims.Email)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrUserNotFound):
					response.Error(w, http.StatusForbidden, "User not found")
				case errors.Is(err, auth.ErrUserNotApproved):
					response.Error(w, http.StatusForbidden, "User not approved")
				default:
					response.Error(w, http.StatusInternalServerError, "Authentication failed")
				}
				return
			}

			ctx := auth.WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
