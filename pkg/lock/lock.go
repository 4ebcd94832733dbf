// Package lock serialises work on a shared key, such as one veterinarian's
// schedule, either inside one process or across instances through Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Backoff bounds between attempts on a held key.
const (
	minRetryDelay = 5 * time.Millisecond
	maxRetryDelay = 100 * time.Millisecond
)

// Locker runs fn while holding the lock for key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisLocker returns a locker backed by one Redis key per lock. Callers on
// a held key poll until it frees up, for at most ttl, and then give up with
// ErrNotAcquired.
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
		prefix: "vetclinic:lock:",
	}
}

func (l *redisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	redisKey := l.prefix + key
	token := uuid.NewString()

	waitCtx, stop := context.WithTimeout(ctx, l.ttl)
	err := acquire(waitCtx, func(ctx context.Context) (bool, error) {
		return l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	})
	stop()
	if err != nil {
		if errors.Is(err, ErrNotAcquired) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	defer func() {
		_ = l.release(context.WithoutCancel(ctx), redisKey, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

// acquire polls try with a doubling delay until the lock is taken. It returns
// ErrNotAcquired once ctx is done.
func acquire(ctx context.Context, try func(ctx context.Context) (bool, error)) error {
	delay := minRetryDelay
	for {
		ok, err := try(ctx)
		if ok {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ErrNotAcquired
			}
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ErrNotAcquired
		case <-timer.C:
		}
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewLocalLocker returns an in-process locker. Callers on the same key wait
// for each other instead of failing.
func NewLocalLocker() Locker {
	return &localLocker{locks: make(map[string]*entry)}
}

func (l *localLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
