package service

import (
	"context"
	"fmt"
	"time"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/idx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// UserService covers profile reads and updates plus the staff-only account
// administration operations.
type UserService struct {
	Users store.Users
	Auth  *AuthService
}

func NewUserService(users store.Users, auth *AuthService) *UserService {
	return &UserService{Users: users, Auth: auth}
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.Users.GetUserByID(ctx, id)
}

// ProfileInput carries the fields a user may change about themselves.
type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
}

// UpdateProfile changes the editable profile fields. The email address is
// fixed after signup.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (domain.User, error) {
	if err := s.Users.UpdateProfile(ctx, id, in.Username, in.FirstName, in.LastName); err != nil {
		return domain.User{}, err
	}
	return s.Users.GetUserByID(ctx, id)
}

// List returns a page of users and the unpaginated total.
func (s *UserService) List(ctx context.Context, filter store.UserFilter) ([]domain.User, int, error) {
	return s.Users.ListUsers(ctx, filter)
}

// AdminCreateInput carries the fields for a staff-created account. There is
// no password field: the account starts unusable and the owner sets one
// through the emailed setup link.
type AdminCreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsStaff   bool
}

// AdminCreate creates an active account without a password and emails a
// password setup link.
func (s *UserService) AdminCreate(ctx context.Context, in AdminCreateInput) (domain.User, error) {
	now := time.Now().UTC()
	user := domain.User{
		ID:        idx.New().String(),
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		IsStaff:   in.IsStaff,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	if err := s.Auth.SendPasswordSetup(ctx, user); err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created by staff", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// AdminUpdateInput carries the fields staff may change on any account. Nil
// flags are left untouched.
type AdminUpdateInput struct {
	Username  string
	FirstName string
	LastName  string
	IsActive  *bool
	IsStaff   *bool
}

// AdminUpdate changes another account's profile and flags.
func (s *UserService) AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (domain.User, error) {
	if err := s.Users.UpdateProfile(ctx, id, in.Username, in.FirstName, in.LastName); err != nil {
		return domain.User{}, err
	}
	if in.IsActive != nil {
		if err := s.Users.SetActive(ctx, id, *in.IsActive); err != nil {
			return domain.User{}, fmt.Errorf("user service: set active: %w", err)
		}
	}
	if in.IsStaff != nil {
		if err := s.Users.SetStaff(ctx, id, *in.IsStaff); err != nil {
			return domain.User{}, fmt.Errorf("user service: set staff: %w", err)
		}
	}
	return s.Users.GetUserByID(ctx, id)
}

// Deactivate soft deletes an account. The row stays, logins stop.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Users.GetUserByID(ctx, id); err != nil {
		return err
	}
	if err := s.Users.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("user service: deactivate: %w", err)
	}
	slogx.FromContext(ctx).Info("user deactivated", "user_id", id)
	return nil
}
