package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/paperloop/paperloop/internal/identity/denylist"
	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/mailer"
	"github.com/paperloop/paperloop/internal/identity/store"
	"github.com/paperloop/paperloop/pkg/idx"
	"github.com/paperloop/paperloop/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// fakeUsers is an in-memory store.Users used across the service tests.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]domain.User)}
}

func (f *fakeUsers) add(u domain.User) domain.User {
	if u.ID == "" {
		u.ID = idx.New().String()
	}
	f.mu.Lock()
	f.users[u.ID] = u
	f.mu.Unlock()
	return u
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, v string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == v || u.Email == v {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeUsers) CreateUser(_ context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == u.Email {
			return store.ErrEmailExists
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID, username, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Username, u.FirstName, u.LastName = username, firstName, lastName
	f.users[userID] = u
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, userID string, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = newHash
	f.users[userID] = u
	return nil
}

func (f *fakeUsers) SetActive(_ context.Context, userID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.IsActive = active
	f.users[userID] = u
	return nil
}

func (f *fakeUsers) SetStaff(_ context.Context, userID string, staff bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.IsStaff = staff
	f.users[userID] = u
	return nil
}

func (f *fakeUsers) ListUsers(_ context.Context, filter store.UserFilter) ([]domain.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if filter.Username != "" && u.Username != filter.Username {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

// recordingSender captures outbound mail for assertions.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	to  string
	msg mailer.Message
}

func (r *recordingSender) Send(_ context.Context, to string, msg mailer.Message) error {
	r.mu.Lock()
	r.sent = append(r.sent, sentMail{to: to, msg: msg})
	r.mu.Unlock()
	return nil
}

func (r *recordingSender) last(t *testing.T) sentMail {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// tokenFromURL pulls the token query parameter out of an emailed link.
func tokenFromURL(t *testing.T, body string) string {
	t.Helper()
	_, after, found := strings.Cut(body, "?token=")
	require.True(t, found, "no token in %q", body)
	return after
}

func testTTLs() map[domain.TokenAction]time.Duration {
	return map[domain.TokenAction]time.Duration{
		domain.ActionLogin:    time.Hour,
		domain.ActionActivate: time.Hour,
		domain.ActionPassword: time.Hour,
	}
}

func newTestTokenService(t *testing.T, users store.Users) *TokenService {
	t.Helper()

	pemKey, err := jwtx.GenerateEd25519PEM()
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(pemKey)
	require.NoError(t, err)

	dl := denylist.NewMemory(time.Minute)
	t.Cleanup(dl.Stop)

	svc, err := NewTokenService(signer, users, dl, testTTLs())
	require.NoError(t, err)
	return svc
}
