package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerialisesSameKey(t *testing.T) {
	l := NewLocalLocker()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), "vet:1", func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLockerDifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocalLocker()
	done := make(chan struct{})

	err := l.WithLock(context.Background(), "vet:1", func(ctx context.Context) error {
		go func() {
			_ = l.WithLock(context.Background(), "vet:2", func(ctx context.Context) error {
				close(done)
				return nil
			})
		}()
		select {
		case <-done:
			return nil
		case <-time.After(time.Second):
			return errors.New("second key blocked")
		}
	})
	require.NoError(t, err)
}

func TestLocalLockerPropagatesError(t *testing.T) {
	l := NewLocalLocker()
	want := errors.New("conflict")

	err := l.WithLock(context.Background(), "vet:1", func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestLocalLockerHonoursCancelledContext(t *testing.T) {
	l := NewLocalLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := l.WithLock(ctx, "vet:1", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAcquireWaitsForHolder(t *testing.T) {
	attempts := 0
	err := acquire(context.Background(), func(context.Context) (bool, error) {
		attempts++
		return attempts == 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
}

func TestAcquireGivesUpWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := acquire(ctx, func(context.Context) (bool, error) { return false, nil })
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAcquireStopsOnBackendError(t *testing.T) {
	want := errors.New("connection refused")
	attempts := 0
	err := acquire(context.Background(), func(context.Context) (bool, error) {
		attempts++
		return false, want
	})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, attempts)
}
