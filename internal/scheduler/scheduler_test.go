package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualTicker(ch chan time.Time) Option {
	return WithTicker(func(time.Duration) (<-chan time.Time, func()) {
		return ch, func() {}
	})
}

func TestStartStop(t *testing.T) {
	ticks := make(chan time.Time)
	var runs int32
	s := New(TaskFunc(func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}), time.Second, nil, manualTicker(ticks))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)

	ticks <- time.Now()
	ticks <- time.Now()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestImmediateRun(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := New(TaskFunc(func(context.Context) error {
		ran <- struct{}{}
		return nil
	}), time.Hour, nil, WithImmediate())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("expected immediate run")
	}
}

func TestStopWaitsForInFlightTick(t *testing.T) {
	ticks := make(chan time.Time)
	started := make(chan struct{})
	var finished int32

	s := New(TaskFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		atomic.StoreInt32(&finished, 1)
		return ctx.Err()
	}), time.Second, nil, manualTicker(ticks))

	require.NoError(t, s.Start(context.Background()))
	ticks <- time.Now()
	<-started

	require.NoError(t, s.Stop())
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

func TestTaskErrorsDoNotStopLoop(t *testing.T) {
	ticks := make(chan time.Time)
	var runs int32
	s := New(TaskFunc(func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("network blip")
	}), time.Second, nil, manualTicker(ticks))

	require.NoError(t, s.Start(context.Background()))
	ticks <- time.Now()
	ticks <- time.Now()
	ticks <- time.Now()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestRestartAfterStop(t *testing.T) {
	s := New(TaskFunc(func(context.Context) error { return nil }), time.Hour, nil)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
}
