package http

import (
	"net/http"
	"strings"

	"github.com/paperloop/paperloop/pkg/httpx"
	"github.com/paperloop/paperloop/pkg/jwtx"
)

// loginAction is the token action the identity service stamps on session
// tokens. Anything else (activation, password links) is refused here.
const loginAction = "login"

// VerifyToken admits requests that carry a valid login token and stores the
// subject id in the context. The docs service only holds the verification
// key: no user lookup and no denylist check happens here, so a logged-out
// token stays good until it expires.
func VerifyToken(verifier *jwtx.Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := strings.Fields(r.Header.Get("Authorization"))
			if len(fields) != 2 || !strings.EqualFold(fields[0], httpx.TokenScheme) {
				writeError(w, http.StatusForbidden, msgNotAuthenticated)
				return
			}

			claims, err := verifier.Verify(fields[1])
			if err != nil || claims.Action != loginAction {
				writeError(w, http.StatusForbidden, msgInvalidToken)
				return
			}

			ctx := httpx.ContextWithSubject(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
