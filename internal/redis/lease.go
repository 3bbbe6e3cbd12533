package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// Lease is a named lock in Redis that expires on its own.
type Lease struct {
	client rueidis.Client
	key    string
	owner  string
}

// NewLease creates a lease on key held under the given owner name.
func NewLease(client rueidis.Client, key, owner string) *Lease {
	return &Lease{
		client: client,
		key:    "lease:" + key,
		owner:  owner,
	}
}

// Acquire takes the lease for ttl. It succeeds when the lease is free or already
// held by this owner, in which case the ttl is renewed.
func (l *Lease) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	err := l.client.Do(ctx, l.client.B().Set().Key(l.key).Value(l.owner).Nx().Px(ttl).Build()).Error()
	if err == nil {
		return true, nil
	}
	if !rueidis.IsRedisNil(err) {
		return false, fmt.Errorf("failed to acquire lease %s: %w", l.key, err)
	}

	holder, err := l.client.Do(ctx, l.client.B().Get().Key(l.key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read lease %s: %w", l.key, err)
	}
	if holder != l.owner {
		return false, nil
	}

	err = l.client.Do(ctx, l.client.B().Pexpire().Key(l.key).Milliseconds(ttl.Milliseconds()).Build()).Error()
	if err != nil {
		return false, fmt.Errorf("failed to renew lease %s: %w", l.key, err)
	}
	return true, nil
}
