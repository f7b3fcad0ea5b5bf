package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrLockNotAcquired = errors.New("slot lock not acquired")
)

// Locker is used by the appointment service to guard critical sections per slot
type Locker interface {
	WithSlotLock(ctx context.Context, slotID string, fn func(ctx context.Context) error) error
}

type slotLocker struct {
	mu    sync.Mutex
	slots map[string]*slotSemaphore
	wait  time.Duration
}

// slotSemaphore is dropped from the map once nobody holds or waits on it.
type slotSemaphore struct {
	ch   chan struct{}
	refs int
}

// NewSlotLocker creates a locker holding one semaphore per slot id.
// Callers give up with ErrLockNotAcquired after waiting for wait.
func NewSlotLocker(wait time.Duration) Locker {
	return &slotLocker{
		slots: make(map[string]*slotSemaphore),
		wait:  wait,
	}
}

func (l *slotLocker) WithSlotLock(ctx context.Context, slotID string, fn func(ctx context.Context) error) error {
	sem := l.acquire(slotID)
	defer l.release(slotID, sem)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case sem.ch <- struct{}{}:
	case <-timer.C:
		return ErrLockNotAcquired
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-sem.ch }()

	return fn(ctx)
}

func (l *slotLocker) acquire(slotID string) *slotSemaphore {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.slots[slotID]
	if !ok {
		sem = &slotSemaphore{ch: make(chan struct{}, 1)}
		l.slots[slotID] = sem
	}
	sem.refs++
	return sem
}

func (l *slotLocker) release(slotID string, sem *slotSemaphore) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem.refs--
	if sem.refs == 0 {
		delete(l.slots, slotID)
	}
}
