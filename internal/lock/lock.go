// Package lock serializes seed runs that target the same store.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrHeld means another run owns the lock.
	ErrHeld = errors.New("seed lock held by another run")
	// ErrNotOwner means the lock expired or was taken over before release.
	ErrNotOwner = errors.New("seed lock no longer owned")
)

const DefaultKey = "workoutseed:run"

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Redis struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

func NewRedis(rdb redis.Cmdable, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Redis{rdb: rdb, key: key, ttl: ttl}
}

// Held is an acquired lock. Release it exactly once.
type Held struct {
	l     *Redis
	token string
}

func (l *Redis) Acquire(ctx context.Context) (*Held, error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return &Held{l: l, token: token}, nil
}

func (h *Held) Token() string {
	return h.token
}

func (h *Held) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, h.l.rdb, []string{h.l.key}, h.token).Int()
	if err != nil {
		return fmt.Errorf("release %s: %w", h.l.key, err)
	}
	if n == 0 {
		return ErrNotOwner
	}
	return nil
}

// Locker is what callers depend on; a Noop satisfies it when Redis is not
// configured.
type Locker interface {
	Acquire(ctx context.Context) (Releaser, error)
}

type Releaser interface {
	Release(ctx context.Context) error
}

// AsLocker adapts a *Redis to Locker.
func AsLocker(l *Redis) Locker {
	return redisLocker{l}
}

type redisLocker struct{ *Redis }

func (r redisLocker) Acquire(ctx context.Context) (Releaser, error) {
	h, err := r.Redis.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return h, nil
}

type Noop struct{}

func (Noop) Acquire(context.Context) (Releaser, error) { return noopRelease{}, nil }

type noopRelease struct{}

func (noopRelease) Release(context.Context) error { return nil }
