package middleware

import (
	"net/http"

	goGuard "github.com/MrEthical07/goGuard"
)

// RoleFunc extracts the acting principal's role from a request.
type RoleFunc func(*http.Request) (string, bool)

// RoleFromContext reads the role stored with goGuard.WithRole.
func RoleFromContext(r *http.Request) (string, bool) {
	return goGuard.RoleFromContext(r.Context())
}

// RoleFromHeader reads the role from a request header. Only use it behind a
// proxy that sets the header from an authenticated identity.
func RoleFromHeader(name string) RoleFunc {
	return func(r *http.Request) (string, bool) {
		v := r.Header.Get(name)
		return v, v != ""
	}
}

// RequireRole answers 401 when no role is present and 403 when the role is
// below required or unknown. A nil roleFunc uses RoleFromContext.
func RequireRole(monitor *goGuard.Monitor, required string, roleFunc RoleFunc) func(http.Handler) http.Handler {
	if roleFunc == nil {
		roleFunc = RoleFromContext
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if monitor == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			role, ok := roleFunc(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !monitor.HasPermission(role, required) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(goGuard.WithRole(r.Context(), role)))
		})
	}
}
