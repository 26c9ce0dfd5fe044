// Package redislock grants per-driver reservations through Redis so that
// several engine replicas never commit to the same driver at once.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix  = "dispatch:driver-lock:"
	DefaultTTL        = 10 * time.Second
	DefaultRetryDelay = 25 * time.Millisecond
)

// releaseScript deletes the key only when it still holds our token, so an
// expired hold that was taken over by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Reserver implements ports.DriverReserver with SET NX PX. A hold expires
// after TTL even if its owner crashes. Holds are never renewed, so TTL must
// cover the reservation wait plus the commit that runs under it.
type Reserver struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	retryDelay time.Duration
}

var _ ports.DriverReserver = (*Reserver)(nil)

type Option func(*Reserver)

func WithKeyPrefix(prefix string) Option {
	return func(r *Reserver) { r.prefix = prefix }
}

func WithTTL(ttl time.Duration) Option {
	return func(r *Reserver) { r.ttl = ttl }
}

func WithRetryDelay(d time.Duration) Option {
	return func(r *Reserver) { r.retryDelay = d }
}

func NewReserver(client redis.UniversalClient, opts ...Option) *Reserver {
	r := &Reserver{
		client:     client,
		prefix:     DefaultKeyPrefix,
		ttl:        DefaultTTL,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reserve polls until the key is free or ctx ends.
func (r *Reserver) Reserve(ctx context.Context, driverID kernel.UUID) (ports.Release, error) {
	key := r.prefix + driverID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(r.retryDelay)
	defer ticker.Stop()

	for {
		ok, setErr := r.client.SetNX(ctx, key, token, r.ttl).Result()
		switch {
		case ok:
			return r.release(key, token), nil
		case setErr != nil && ctx.Err() == nil:
			return nil, fmt.Errorf("reserve driver %s: %w", driverID, setErr)
		}

		select {
		case <-ctx.Done():
			return nil, ports.ErrDriverReserved
		case <-ticker.C:
		}
	}
}

func (r *Reserver) release(key, token string) ports.Release {
	var released atomic.Bool
	return func(ctx context.Context) error {
		if !released.CompareAndSwap(false, true) {
			return nil
		}
		err := releaseScript.Run(ctx, r.client, []string{key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release %s: %w", key, err)
		}
		return nil
	}
}
