package http

import (
	"context"
	"errors"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/service"
	"github.com/paperloop/paperloop/pkg/httpx"
)

// TokenAuthenticator resolves login tokens for the authentication
// middleware. Validation never invalidates here; only logout consumes a
// token.
type TokenAuthenticator struct {
	Tokens *service.TokenService
}

func (a *TokenAuthenticator) AuthenticateToken(ctx context.Context, token string) (httpx.Principal, error) {
	user, _, err := a.Tokens.Validate(ctx, token, domain.ActionLogin, false)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			return httpx.Principal{}, &httpx.AuthError{Message: domain.MsgInvalidToken}
		case errors.Is(err, service.ErrInvalidTokenAction):
			return httpx.Principal{}, &httpx.AuthError{Message: domain.MsgInvalidTokenAction}
		case errors.Is(err, service.ErrInvalidTokenUser):
			return httpx.Principal{}, &httpx.AuthError{Message: domain.MsgInvalidTokenUser}
		}
		return httpx.Principal{}, err
	}

	if !user.IsActive {
		return httpx.Principal{}, &httpx.AuthError{Message: domain.MsgUserDeactivated}
	}

	return httpx.Principal{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		IsStaff:   user.IsStaff,
	}, nil
}
