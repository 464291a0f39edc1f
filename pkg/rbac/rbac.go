// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/response"
)

// Require returns middleware that allows only identities whose role is in
// the given set. middleware.Authenticate must run first; a request with no
// identity is treated as unauthenticated.
func Require(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := auth.IdentityFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[ident.Role] {
				response.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
