// Package denylist tracks token strings that must be rejected before their
// natural expiry: tokens surrendered at logout and single-use tokens that
// have already been spent.
//
// Entries carry a TTL bounded by the token's own remaining validity, so the
// list never needs to remember a token longer than the token would have been
// accepted anyway.
package denylist

import (
	"context"
	"time"
)

// Denylist is the shared invalidation store. The production backend must be
// visible to every request-handling process: once Put returns, every
// subsequent Contains call anywhere observes the entry.
type Denylist interface {
	// Contains reports whether token has been invalidated.
	Contains(ctx context.Context, token string) (bool, error)

	// Put records token as invalidated for its issuing subject. Re-adding
	// the same token is a no-op, not an error.
	Put(ctx context.Context, token, subjectID string, ttl time.Duration) error
}
