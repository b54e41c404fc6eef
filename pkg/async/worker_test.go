package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"announceslider/pkg/logger"
)

func TestWorker_RunsTasks(t *testing.T) {
	w := NewWorker(10, logger.NewNop())
	w.Start(2)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.True(t, w.Go("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	w.Stop()
	assert.EqualValues(t, 5, ran.Load())
}

func TestWorker_SubmitWhenFull(t *testing.T) {
	w := NewWorker(1, logger.NewNop())
	// not started: the single slot fills and the next submit is dropped
	ok, err := w.Submit(Task{Handler: func(context.Context) error { return nil }})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = w.Submit(Task{Handler: func(context.Context) error { return nil }})
	require.NoError(t, err)
	assert.False(t, ok)

	w.Start(1)
	w.Stop()
}

func TestWorker_SubmitAfterStop(t *testing.T) {
	w := NewWorker(1, logger.NewNop())
	w.Start(1)
	w.Stop()
	w.Stop()

	_, err := w.Submit(Task{Handler: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestWorker_TimeoutAndFailuresDoNotRetry(t *testing.T) {
	w := NewWorker(4, logger.NewNop())
	w.Start(1)

	var attempts atomic.Int32
	var deadline atomic.Bool
	_, err := w.Submit(Task{
		Timeout: 10 * time.Millisecond,
		Handler: func(ctx context.Context) error {
			attempts.Add(1)
			<-ctx.Done()
			deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
			return ctx.Err()
		},
	})
	require.NoError(t, err)
	_, err = w.Submit(Task{Handler: func(context.Context) error { panic("boom") }})
	require.NoError(t, err)

	w.Stop()
	assert.EqualValues(t, 1, attempts.Load())
	assert.True(t, deadline.Load())
}
