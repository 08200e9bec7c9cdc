package service

import (
	"context"
	"testing"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Sup3r-Secret"

func newTestAuthService(t *testing.T) (*AuthService, *fakeUsers, *recordingSender) {
	t.Helper()
	users := newFakeUsers()
	tokens := newTestTokenService(t, users)
	sender := &recordingSender{}
	return NewAuthService(users, tokens, sender, "http://localhost:8080"), users, sender
}

func addActiveUser(t *testing.T, users *fakeUsers, username, email, password string) domain.User {
	t.Helper()
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)
	return users.add(domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	})
}

func TestAuthService_SignupActivateLogin(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strongPassword,
	})
	require.NoError(t, err)
	require.False(t, user.IsActive)

	// The fresh account cannot log in yet.
	_, _, err = svc.Login(ctx, "alice", strongPassword)
	require.ErrorIs(t, err, ErrUserDeactivated)

	activationToken := tokenFromURL(t, sender.last(t).msg.Body)
	activated, err := svc.Activate(ctx, activationToken)
	require.NoError(t, err)
	require.True(t, activated.IsActive)

	// The activation link is single use.
	_, err = svc.Activate(ctx, activationToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, token, err := svc.Login(ctx, "alice", strongPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Email works for login too.
	_, _, err = svc.Login(ctx, "alice@example.com", strongPassword)
	require.NoError(t, err)
}

func TestAuthService_Signup_Rejections(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()
	addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupInput{
			Username: "bob", Email: "bob@example.com", Password: "short",
		})
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("username taken", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupInput{
			Username: "alice", Email: "other@example.com", Password: strongPassword,
		})
		require.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupInput{
			Username: "alice2", Email: "alice@example.com", Password: strongPassword,
		})
		require.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestAuthService_Login_WrongCredentials(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()
	addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	_, _, err := svc.Login(ctx, "alice", "Wrong-Passw0rd")
	require.ErrorIs(t, err, ErrWrongCredentials)

	_, _, err = svc.Login(ctx, "nobody", strongPassword)
	require.ErrorIs(t, err, ErrWrongCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()
	addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	_, token, err := svc.Login(ctx, "alice", strongPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	// Re-using the token, for logout or otherwise, fails.
	require.ErrorIs(t, svc.Logout(ctx, token), ErrInvalidToken)
	_, _, err = svc.Tokens.Validate(ctx, token, domain.ActionLogin, false)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_PasswordReset(t *testing.T) {
	t.Parallel()

	svc, users, sender := newTestAuthService(t)
	ctx := context.Background()
	addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	require.ErrorIs(t, svc.RequestPasswordReset(ctx, "nobody"), store.ErrNotFound)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alice"))
	require.Equal(t, "alice@example.com", sender.last(t).to)

	const newPassword = "An0ther-Secret"
	resetToken := tokenFromURL(t, sender.last(t).msg.Body)

	t.Run("mismatched confirmation", func(t *testing.T) {
		_, err := svc.SetupPassword(ctx, resetToken, newPassword, "different")
		require.ErrorIs(t, err, ErrPasswordNoMatch)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.SetupPassword(ctx, resetToken, "short", "short")
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	user, err := svc.SetupPassword(ctx, resetToken, newPassword, newPassword)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	// Old password is out, new one works, link is spent.
	_, _, err = svc.Login(ctx, "alice", strongPassword)
	require.ErrorIs(t, err, ErrWrongCredentials)
	_, _, err = svc.Login(ctx, "alice", newPassword)
	require.NoError(t, err)
	_, err = svc.SetupPassword(ctx, resetToken, newPassword, newPassword)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()
	alice := addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	const newPassword = "An0ther-Secret"

	require.ErrorIs(t,
		svc.ChangePassword(ctx, alice.ID, "Wrong-Passw0rd", newPassword, newPassword),
		ErrPasswordIsWrong)
	require.ErrorIs(t,
		svc.ChangePassword(ctx, alice.ID, strongPassword, strongPassword, strongPassword),
		ErrPasswordTheSame)
	require.ErrorIs(t,
		svc.ChangePassword(ctx, alice.ID, strongPassword, newPassword, "different"),
		ErrPasswordNoMatch)
	require.ErrorIs(t,
		svc.ChangePassword(ctx, alice.ID, strongPassword, "short", "short"),
		ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(ctx, alice.ID, strongPassword, newPassword, newPassword))
	_, _, err := svc.Login(ctx, "alice", newPassword)
	require.NoError(t, err)
}
