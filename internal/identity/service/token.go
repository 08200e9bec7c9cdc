package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paperloop/paperloop/internal/identity/denylist"
	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/jwtx"
	"github.com/paperloop/paperloop/pkg/slogx"
)

// The three validation failures are distinct on purpose: logout, activation
// and password setup each surface a different message depending on whether
// the token is broken, well-formed but presented for the wrong purpose, or
// refers to a user that no longer exists.
var (
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidTokenAction = errors.New("invalid_token_action")
	ErrInvalidTokenUser   = errors.New("invalid_token_user")
)

// TokenService issues and validates action-scoped tokens. It is the unit the
// authentication middleware and every auth workflow depend on.
type TokenService struct {
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	Users    store.Users
	Denylist denylist.Denylist

	// TTLs maps each action to its token lifetime. Every action must be
	// present; NewTokenService enforces this at construction.
	TTLs map[domain.TokenAction]time.Duration
}

// NewTokenService wires a TokenService and verifies that a TTL is configured
// for every action. There are no default lifetimes: a missing entry is a
// deployment mistake surfaced at startup, not at the first request.
func NewTokenService(
	signer *jwtx.Signer,
	users store.Users,
	dl denylist.Denylist,
	ttls map[domain.TokenAction]time.Duration,
) (*TokenService, error) {
	for _, action := range domain.Actions() {
		ttl, ok := ttls[action]
		if !ok || ttl <= 0 {
			return nil, fmt.Errorf("token service: no TTL configured for action %q", action)
		}
	}

	return &TokenService{
		Signer:   signer,
		Verifier: signer.Verifier(),
		Users:    users,
		Denylist: dl,
		TTLs:     ttls,
	}, nil
}

// Issue signs a token for the subject scoped to action, using the action's
// configured lifetime.
func (s *TokenService) Issue(subjectID string, action domain.TokenAction) (string, error) {
	ttl, ok := s.TTLs[action]
	if !ok {
		return "", fmt.Errorf("token service: no TTL configured for action %q", action)
	}
	return s.Signer.Sign(subjectID, string(action), ttl)
}

// Validate checks token for the requested action and resolves its subject.
//
// The checks run in a fixed order: denylist, signature/expiry, action match,
// subject lookup. When invalidate is set the token string is denylisted on
// success, with a TTL equal to the action's configured lifetime so the entry
// never outlives the token it blocks. Validate either fully succeeds or
// fails before any write.
func (s *TokenService) Validate(
	ctx context.Context,
	token string,
	action domain.TokenAction,
	invalidate bool,
) (domain.User, string, error) {
	blocked, err := s.Denylist.Contains(ctx, token)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("token service: denylist lookup: %w", err)
	}
	if blocked {
		return domain.User{}, "", ErrInvalidToken
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return domain.User{}, "", ErrInvalidToken
	}

	if claims.Action != string(action) {
		return domain.User{}, "", ErrInvalidTokenAction
	}

	user, err := s.Users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidTokenUser
		}
		return domain.User{}, "", fmt.Errorf("token service: resolve subject: %w", err)
	}

	if invalidate {
		if err := s.Denylist.Put(ctx, token, user.ID, s.TTLs[action]); err != nil {
			return domain.User{}, "", fmt.Errorf("token service: denylist put: %w", err)
		}
		slogx.FromContext(ctx).Info("token invalidated",
			"action", string(action),
			"user_id", user.ID,
		)
	}

	return user, token, nil
}
