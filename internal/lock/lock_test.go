package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *slotLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func TestWithSlotLockRunsFn(t *testing.T) {
	l := NewSlotLocker(time.Second)

	called := false
	err := l.WithSlotLock(context.Background(), "ts-1", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithSlotLockPropagatesError(t *testing.T) {
	l := NewSlotLocker(time.Second)
	boom := errors.New("boom")

	err := l.WithSlotLock(context.Background(), "ts-1", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// released after a failing fn
	err = l.WithSlotLock(context.Background(), "ts-1", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestWithSlotLockTimesOutWhileHeld(t *testing.T) {
	l := NewSlotLocker(20 * time.Millisecond)

	held := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = l.WithSlotLock(context.Background(), "ts-1", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := l.WithSlotLock(context.Background(), "ts-1", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	// other slots are independent
	err = l.WithSlotLock(context.Background(), "ts-2", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)

	close(release)
	wg.Wait()
}

func TestWithSlotLockHonoursContext(t *testing.T) {
	l := NewSlotLocker(time.Second)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithSlotLock(context.Background(), "ts-1", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.WithSlotLock(ctx, "ts-1", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithSlotLockDropsIdleSemaphores(t *testing.T) {
	l := NewSlotLocker(time.Second).(*slotLocker)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		err := l.WithSlotLock(ctx, fmt.Sprintf("unknown-%d", i), func(ctx context.Context) error {
			return errors.New("not found")
		})
		require.Error(t, err)
	}
	assert.Equal(t, 0, l.size())

	// a held semaphore survives until its holder and waiters are done
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.WithSlotLock(ctx, "ts-1", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	assert.Equal(t, 1, l.size())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, l.WithSlotLock(ctx, "ts-1", func(ctx context.Context) error { return nil }))
	}()

	close(release)
	<-done
	wg.Wait()
	assert.Equal(t, 0, l.size())
}

func TestWithSlotLockSerialisesHolders(t *testing.T) {
	l := NewSlotLocker(time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithSlotLock(ctx, "ts-1", func(ctx context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
