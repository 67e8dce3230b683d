// Package lock provides the ingestion lockers: an in-process keyed mutex and
// a Redis lock for deployments running several server or CLI processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_assistant/internal/core/ports/services"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// LocalLocker serializes work per key inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker returns an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

var _ portssvc.Locker = (*LocalLocker)(nil)

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock blocks until key is free or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}

// RedisLocker holds a redislock lease per key.
type RedisLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	backoff redislock.RetryStrategy
}

// NewRedisLocker wraps a connected Redis client. Leases expire after ttl so a
// crashed holder cannot block ingestion forever.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client:  redislock.New(rdb),
		ttl:     ttl,
		backoff: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), int(ttl/(100*time.Millisecond))),
	}
}

var _ portssvc.Locker = (*RedisLocker)(nil)

// Lock obtains the lease for key, retrying until it is free or the retries run out.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	lease, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.backoff})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: lock %s is held by another process", apperrors.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: obtaining lock %s: %v", apperrors.ErrCollaborator, key, err)
	}

	return func(ctx context.Context) error {
		if err := lease.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("releasing lock %s: %w", key, err)
		}
		return nil
	}, nil
}
