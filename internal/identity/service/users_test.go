package service

import (
	"context"
	"testing"

	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) (*UserService, *fakeUsers, *recordingSender) {
	t.Helper()
	auth, users, sender := newTestAuthService(t)
	return NewUserService(users, auth), users, sender
}

func TestUserService_Profile(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestUserService(t)
	ctx := context.Background()
	alice := addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	got, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	updated, err := svc.UpdateProfile(ctx, alice.ID, ProfileInput{
		Username: "alice2", FirstName: "Alice", LastName: "Doe",
	})
	require.NoError(t, err)
	require.Equal(t, "alice2", updated.Username)
	require.Equal(t, "Alice", updated.FirstName)
	require.Equal(t, "alice@example.com", updated.Email)
}

func TestUserService_AdminCreate(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.AdminCreate(ctx, AdminCreateInput{
		Username: "bob", Email: "bob@example.com", IsStaff: true,
	})
	require.NoError(t, err)
	require.True(t, user.IsActive)
	require.True(t, user.IsStaff)
	require.Empty(t, user.PasswordHash)

	// The account is active but unusable until the setup link is followed.
	_, _, err = svc.Auth.Login(ctx, "bob", strongPassword)
	require.ErrorIs(t, err, ErrWrongCredentials)

	setupToken := tokenFromURL(t, sender.last(t).msg.Body)
	_, err = svc.Auth.SetupPassword(ctx, setupToken, strongPassword, strongPassword)
	require.NoError(t, err)

	_, _, err = svc.Auth.Login(ctx, "bob", strongPassword)
	require.NoError(t, err)
}

func TestUserService_AdminUpdateAndDeactivate(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestUserService(t)
	ctx := context.Background()
	alice := addActiveUser(t, users, "alice", "alice@example.com", strongPassword)

	staff := true
	inactive := false
	updated, err := svc.AdminUpdate(ctx, alice.ID, AdminUpdateInput{
		Username: "alice", FirstName: "Alice", LastName: "Doe",
		IsActive: &inactive, IsStaff: &staff,
	})
	require.NoError(t, err)
	require.True(t, updated.IsStaff)
	require.False(t, updated.IsActive)

	require.ErrorIs(t, svc.Deactivate(ctx, "missing"), store.ErrNotFound)

	// Reactivate, then soft delete.
	active := true
	_, err = svc.AdminUpdate(ctx, alice.ID, AdminUpdateInput{Username: "alice", IsActive: &active})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, alice.ID))

	got, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	_, _, err = svc.Auth.Login(ctx, "alice", strongPassword)
	require.ErrorIs(t, err, ErrUserDeactivated)
}
