package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestScheduler_Add(t *testing.T) {
	s := New(zap.NewNop())

	assert.ErrorIs(t, s.Add(Task{Name: "", Interval: time.Second, Run: func(context.Context) error { return nil }}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Add(Task{Name: "x", Run: func(context.Context) error { return nil }}), ErrInvalidConfig)
	assert.ErrorIs(t, s.Add(Task{Name: "x", Interval: time.Second}), ErrInvalidConfig)

	require.NoError(t, s.Add(Task{Name: "x", Interval: time.Hour, Run: func(context.Context) error { return nil }}))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	assert.ErrorIs(t, s.Add(Task{Name: "y", Interval: time.Hour, Run: func(context.Context) error { return nil }}), ErrAlreadyRunning)
}

func TestScheduler_RunsTasks(t *testing.T) {
	var runs atomic.Int32
	s := New(zap.NewNop())
	require.NoError(t, s.Add(Task{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_RunOnStartAndFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var runs atomic.Int32
	s := New(zap.New(core))
	require.NoError(t, s.Add(Task{
		Name:       "flaky",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	}))

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	failed := logs.FilterMessage("Scheduled task failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "flaky", failed[0].ContextMap()["task"])
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	done := make(chan struct{})
	s := New(zap.New(core))
	require.NoError(t, s.Add(Task{
		Name:       "panicky",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(context.Context) error {
			defer close(done)
			panic("oops")
		},
	}))

	require.NoError(t, s.Start(context.Background()))
	<-done
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("Scheduled task panicked").Len())
}
