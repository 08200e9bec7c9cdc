package service

import (
	"context"
	"testing"
	"time"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueValidate(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	alice := users.add(domain.User{Username: "alice", Email: "alice@example.com", IsActive: true})
	svc := newTestTokenService(t, users)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.Issue(alice.ID, domain.ActionLogin)
		require.NoError(t, err)

		user, got, err := svc.Validate(ctx, token, domain.ActionLogin, false)
		require.NoError(t, err)
		require.Equal(t, alice.ID, user.ID)
		require.Equal(t, token, got)

		// Validation without invalidate leaves the token usable.
		_, _, err = svc.Validate(ctx, token, domain.ActionLogin, false)
		require.NoError(t, err)
	})

	t.Run("wrong action", func(t *testing.T) {
		token, err := svc.Issue(alice.ID, domain.ActionLogin)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, token, domain.ActionActivate, false)
		require.ErrorIs(t, err, ErrInvalidTokenAction)

		// The token stays valid for its own action.
		_, _, err = svc.Validate(ctx, token, domain.ActionLogin, false)
		require.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Signer.SignAt(
			alice.ID,
			string(domain.ActionLogin),
			time.Hour,
			time.Now().Add(-2*time.Hour),
		)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, token, domain.ActionLogin, false)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, token := range []string{"", "garbage", "a.b.c"} {
			_, _, err := svc.Validate(ctx, token, domain.ActionLogin, false)
			require.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, err := svc.Issue("01JD0000000000000000000000", domain.ActionLogin)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, token, domain.ActionLogin, false)
		require.ErrorIs(t, err, ErrInvalidTokenUser)
	})
}

func TestTokenService_Invalidate(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	alice := users.add(domain.User{Username: "alice", Email: "alice@example.com", IsActive: true})
	svc := newTestTokenService(t, users)
	ctx := context.Background()

	t.Run("single use", func(t *testing.T) {
		token, err := svc.Issue(alice.ID, domain.ActionActivate)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, token, domain.ActionActivate, true)
		require.NoError(t, err)

		// Replays fail no matter the invalidate flag.
		_, _, err = svc.Validate(ctx, token, domain.ActionActivate, false)
		require.ErrorIs(t, err, ErrInvalidToken)
		_, _, err = svc.Validate(ctx, token, domain.ActionActivate, true)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("only the presented token", func(t *testing.T) {
		first, err := svc.Issue(alice.ID, domain.ActionLogin)
		require.NoError(t, err)
		// Signed a second apart so the two tokens differ.
		second, err := svc.Signer.SignAt(
			alice.ID, string(domain.ActionLogin), time.Hour, time.Now().Add(-time.Second),
		)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, first, domain.ActionLogin, true)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, first, domain.ActionLogin, false)
		require.ErrorIs(t, err, ErrInvalidToken)
		_, _, err = svc.Validate(ctx, second, domain.ActionLogin, false)
		require.NoError(t, err)
	})
}

func TestNewTokenService_RequiresTTLs(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	svc := newTestTokenService(t, users)

	for _, ttls := range []map[domain.TokenAction]time.Duration{
		nil,
		{domain.ActionLogin: time.Hour},
		{
			domain.ActionLogin:    time.Hour,
			domain.ActionActivate: 0,
			domain.ActionPassword: time.Hour,
		},
	} {
		_, err := NewTokenService(svc.Signer, users, svc.Denylist, ttls)
		require.Error(t, err)
	}
}
