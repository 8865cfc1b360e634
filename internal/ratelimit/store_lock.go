package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StoreLock serializes work for a single store. Different stores never
// contend with each other.
type StoreLock interface {
	// Acquire blocks until the store's lock is held or ctx is done.
	// The returned func releases the lock.
	Acquire(ctx context.Context, storeID int64) (func(), error)
}

const (
	storeLockTTL   = 2 * time.Minute
	storeLockRetry = 100 * time.Millisecond
)

type redisStoreLock struct {
	locker *Locker
}

// NewStoreLock returns a redis-backed StoreLock when a locker is configured,
// otherwise an in-process keyed mutex. The in-process fallback only
// serializes within one instance.
func NewStoreLock(locker *Locker) StoreLock {
	if locker == nil {
		return &localStoreLock{locks: make(map[int64]*storeMutex)}
	}
	return &redisStoreLock{locker: locker}
}

func (l *redisStoreLock) Acquire(ctx context.Context, storeID int64) (func(), error) {
	key := fmt.Sprintf("lock:store:%d", storeID)
	for {
		token, ok, err := l.locker.TryLock(ctx, key, storeLockTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = l.locker.Release(releaseCtx, key, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(storeLockRetry):
		}
	}
}

type storeMutex struct {
	mu   sync.Mutex
	refs int
}

type localStoreLock struct {
	mu    sync.Mutex
	locks map[int64]*storeMutex
}

func (l *localStoreLock) Acquire(ctx context.Context, storeID int64) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	entry, ok := l.locks[storeID]
	if !ok {
		entry = &storeMutex{}
		l.locks[storeID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, storeID)
		}
		l.mu.Unlock()
	}, nil
}
