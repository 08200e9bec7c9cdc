package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// TokenScheme is the Authorization header scheme word, matched
// case-insensitively: "Token <token_string>".
const TokenScheme = "Token"

// Authenticator resolves a presented token string into a principal.
// Implementations decide which checks apply (signature, action scoping,
// blacklist, account state).
type Authenticator interface {
	AuthenticateToken(ctx context.Context, token string) (Principal, error)
}

// AuthError carries a client-facing message for an authentication failure.
// Authenticator implementations return it when the failure is safe to show;
// anything else is surfaced as a generic invalid-token message.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// Authenticate extracts a bearer credential and resolves it through a.
//
// A missing, malformed (not exactly "scheme value") or differently-schemed
// header is not an error: the request proceeds unauthenticated and any
// endpoint that needs a principal rejects it later. A present, well-formed
// credential that fails to resolve rejects the request here with 403.
func Authenticate(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := parseTokenHeader(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			p, err := a.AuthenticateToken(r.Context(), token)
			if err != nil {
				var authErr *AuthError
				if errors.As(err, &authErr) {
					WriteError(w, http.StatusForbidden, authErr.Message)
					return
				}
				WriteError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := ContextWithPrincipal(r.Context(), p, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseTokenHeader(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return "", false
	}
	if !strings.EqualFold(fields[0], TokenScheme) {
		return "", false
	}
	return fields[1], true
}
