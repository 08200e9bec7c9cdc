package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set carried by every token the service issues. A token
// is scoped to a single action: a login token cannot activate an account and
// an activation token cannot authenticate a request.
type Claims struct {
	jwt.RegisteredClaims

	// Action the token was issued for ("login", "activate", "password").
	Action string `json:"act"`
}

// NewClaims builds the claim set for a subject and action expiring after ttl.
func NewClaims(subject, action string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Action: action,
	}
}
