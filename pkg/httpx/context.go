package httpx

import "context"

// Principal is the authenticated identity attached to a request by the
// authentication middleware. It is a plain value so handlers never reach back
// into ambient framework state for "the current user".
type Principal struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	IsStaff   bool
}

type ctxKey string

const (
	ctxKeyPrincipal ctxKey = "principal"
	ctxKeyToken     ctxKey = "token"
	ctxKeySubject   ctxKey = "subject"
)

// ContextWithPrincipal stores the resolved principal and the exact token
// string it presented. The token is kept so logout can invalidate precisely
// the credential that was used.
func ContextWithPrincipal(ctx context.Context, p Principal, token string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyPrincipal, p)
	ctx = context.WithValue(ctx, ctxKeyToken, token)
	return ctx
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

// TokenFromContext returns the raw token string the request authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(ctxKeyToken).(string)
	return t, ok
}

// ContextWithSubject stores just a subject id, used by services that verify
// tokens without resolving the full principal.
func ContextWithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, subjectID)
}

// SubjectFromContext returns the verified subject id, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKeySubject).(string)
	return s, ok
}
