// Package revocation implements the token revocation list (TRL). Logout adds
// the token's jti until its natural expiry; the auth middleware checks every
// request against the list.
package revocation

import (
	"context"
	"fmt"
	"time"
)

// TokenRevocationList is the contract shared by the Redis, Postgres, and
// in-memory implementations.
type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	return nil
}
