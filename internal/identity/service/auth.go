package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/mailer"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/cryptox"
	"github.com/paperloop/paperloop/pkg/idx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

var (
	ErrWrongCredentials = errors.New("wrong_credentials")
	ErrUserDeactivated  = errors.New("user_deactivated")
	ErrWeakPassword     = errors.New("weak_password")
	ErrPasswordNoMatch  = errors.New("password_no_match")
	ErrPasswordIsWrong  = errors.New("password_is_wrong")
	ErrPasswordTheSame  = errors.New("password_the_same")
)

// AuthService implements the account lifecycle: signup, activation, login,
// logout and the password flows. It owns no token logic beyond choosing the
// action; checks and invalidation live in TokenService.
type AuthService struct {
	Users   store.Users
	Tokens  *TokenService
	Mailer  mailer.Sender
	SiteURL string
}

func NewAuthService(users store.Users, tokens *TokenService, sender mailer.Sender, siteURL string) *AuthService {
	return &AuthService{
		Users:   users,
		Tokens:  tokens,
		Mailer:  sender,
		SiteURL: siteURL,
	}
}

// SignupInput carries the fields a new account starts with.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates an inactive account and emails an activation link. The
// account cannot log in until the link is followed.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	if !cryptox.CheckPasswordStrength(in.Password, cryptox.MinPasswordLength) {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth service: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     false,
		IsStaff:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	if err := s.sendActionMail(ctx, user, domain.ActionActivate); err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates by username or email and returns a login token. A
// match against a deactivated account is reported as deactivated, not as
// wrong credentials, so the user knows the account exists but is disabled.
func (s *AuthService) Login(ctx context.Context, login, password string) (domain.User, string, error) {
	user, err := s.Users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrWrongCredentials
		}
		return domain.User{}, "", fmt.Errorf("auth service: lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, "", ErrWrongCredentials
		}
		return domain.User{}, "", fmt.Errorf("auth service: verify password: %w", err)
	}

	if !user.IsActive {
		return domain.User{}, "", ErrUserDeactivated
	}

	token, err := s.Tokens.Issue(user.ID, domain.ActionLogin)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("auth service: issue login token: %w", err)
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout invalidates the presented login token. Other sessions of the same
// user stay valid.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, _, err := s.Tokens.Validate(ctx, token, domain.ActionLogin, true)
	return err
}

// Activate consumes an activation token and switches the account on.
func (s *AuthService) Activate(ctx context.Context, token string) (domain.User, error) {
	user, _, err := s.Tokens.Validate(ctx, token, domain.ActionActivate, true)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Users.SetActive(ctx, user.ID, true); err != nil {
		return domain.User{}, fmt.Errorf("auth service: activate user: %w", err)
	}
	user.IsActive = true

	slogx.FromContext(ctx).Info("user activated", "user_id", user.ID)
	return user, nil
}

// RequestPasswordReset emails a reset link to the account with the given
// username.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username string) error {
	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.sendResetMail(ctx, user, mailer.PasswordResetMessage)
}

// SendPasswordSetup emails a first-time password link. Admin-created
// accounts start without a usable password and bootstrap through this flow.
func (s *AuthService) SendPasswordSetup(ctx context.Context, user domain.User) error {
	return s.sendResetMail(ctx, user, mailer.PasswordSetupMessage)
}

// SetupPassword consumes a password token and stores the new password. Both
// the reset and first-time setup links land here.
func (s *AuthService) SetupPassword(ctx context.Context, token, password, confirm string) (domain.User, error) {
	if password != confirm {
		return domain.User{}, ErrPasswordNoMatch
	}
	if !cryptox.CheckPasswordStrength(password, cryptox.MinPasswordLength) {
		return domain.User{}, ErrWeakPassword
	}

	user, _, err := s.Tokens.Validate(ctx, token, domain.ActionPassword, true)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth service: hash password: %w", err)
	}
	if err := s.Users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return domain.User{}, fmt.Errorf("auth service: store password: %w", err)
	}

	slogx.FromContext(ctx).Info("password set", "user_id", user.ID)
	return user, nil
}

// ChangePassword replaces a logged-in user's password after re-checking the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, password, confirm string) error {
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrPasswordIsWrong
		}
		return fmt.Errorf("auth service: verify password: %w", err)
	}

	if password == current {
		return ErrPasswordTheSame
	}
	if password != confirm {
		return ErrPasswordNoMatch
	}
	if !cryptox.CheckPasswordStrength(password, cryptox.MinPasswordLength) {
		return ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth service: hash password: %w", err)
	}
	if err := s.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("auth service: store password: %w", err)
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

func (s *AuthService) sendActionMail(ctx context.Context, user domain.User, action domain.TokenAction) error {
	token, err := s.Tokens.Issue(user.ID, action)
	if err != nil {
		return fmt.Errorf("auth service: issue %s token: %w", action, err)
	}
	url := fmt.Sprintf("%s/v1/auth/activate?token=%s", s.SiteURL, token)
	if err := s.Mailer.Send(ctx, user.Email, mailer.ActivationMessage(url)); err != nil {
		return fmt.Errorf("auth service: send mail: %w", err)
	}
	return nil
}

func (s *AuthService) sendResetMail(ctx context.Context, user domain.User, build func(string) mailer.Message) error {
	token, err := s.Tokens.Issue(user.ID, domain.ActionPassword)
	if err != nil {
		return fmt.Errorf("auth service: issue password token: %w", err)
	}
	url := fmt.Sprintf("%s/v1/auth/password-setup?token=%s", s.SiteURL, token)
	if err := s.Mailer.Send(ctx, user.Email, build(url)); err != nil {
		return fmt.Errorf("auth service: send mail: %w", err)
	}
	return nil
}
