package httpx

import "net/http"

// Client-facing authorization messages. Spelled once so handlers and
// middleware stay consistent.
const (
	MsgNotAuthenticated = "Authentication credentials were not provided."
	MsgNoPermission     = "You do not have permission to perform this action."
	MsgNotAllowed       = "Not allowed"
)

// RequireAuthenticated rejects requests that carry no resolved principal.
// Authentication presence is always checked before any authorization rule.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				WriteError(w, http.StatusForbidden, MsgNotAuthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff allows only principals with the staff flag through. An
// unauthenticated request fails the presence check first, never the staff
// rule.
func RequireStaff() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusForbidden, MsgNotAuthenticated)
				return
			}
			if !p.IsStaff {
				WriteError(w, http.StatusForbidden, MsgNoPermission)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
