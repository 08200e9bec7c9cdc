package domain

import "time"

// User is a principal known to the identity service. A freshly signed-up
// user starts inactive and cannot authenticate until the activation link is
// used. PasswordHash is empty for admin-created accounts until the password
// setup link is used.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2id PHC encoded, empty means no usable password
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
