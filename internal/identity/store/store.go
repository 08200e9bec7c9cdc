package store

import (
	"context"
	"errors"

	"github.com/paperloop/paperloop/internal/identity/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// Unique-constraint violations are split per field so the API can return
	// field-keyed errors on signup.
	ErrUsernameExists = errors.New("store: username already exists")
	ErrEmailExists    = errors.New("store: email already exists")
)

// UserFilter narrows and orders admin user listings. Filter fields are
// exact-match; empty values are ignored. Order entries are column names with
// an optional "-" prefix for descending.
type UserFilter struct {
	Username  string
	Email     string
	FirstName string
	LastName  string

	Order []string

	// Limit 0 asks for the default page size; a negative Limit disables
	// pagination entirely (used by exports).
	Limit  int
	Offset int
}

// Store is the root data access interface for the identity service.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used by the password reset flow.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByLogin matches either username or email, which is what the
	// login form accepts.
	GetUserByLogin(ctx context.Context, usernameOrEmail string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the caller via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates the profile fields and bumps updated_at.
	UpdateProfile(ctx context.Context, userID, username, firstName, lastName string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetActive flips the active flag. Deactivation doubles as the soft
	// delete used by the admin API.
	SetActive(ctx context.Context, userID string, active bool) error

	// SetStaff flips the staff flag.
	SetStaff(ctx context.Context, userID string, staff bool) error

	// ListUsers returns a filtered page of users plus the unpaginated total.
	ListUsers(ctx context.Context, f UserFilter) ([]domain.User, int, error)
}
