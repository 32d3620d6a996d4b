package ports

import (
	"context"
	"time"
)

// StateStore is the short-lived CSRF state cache mapping a random state
// token to the shop domain that initiated an OAuth flow.
type StateStore interface {
	// Put stores state -> shopDomain with the given expiry.
	Put(ctx context.Context, state, shopDomain string, ttl time.Duration) error

	// Take atomically reads and deletes the entry, returning the shop
	// domain, or "" when the state is unknown or expired. The
	// read-and-delete must be atomic so a state token is consumed at most
	// once under concurrent callbacks.
	Take(ctx context.Context, state string) (string, error)
}
