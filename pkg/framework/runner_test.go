package framework

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerStopsOnFirstExit(t *testing.T) {
	failure := errors.New("port closed")
	r := NewRunner()
	r.Go(
		NamedRun("poll", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(context.Context) error { return failure }),
	)
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, failure))
	require.Equal(t, failure.Error(), err.Error())
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var n int
	err := Every(time.Millisecond, func(context.Context) error {
		if n++; n == 3 {
			cancel()
		}
		return nil
	}).Run(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 3, n)

	failure := errors.New("read failed")
	err = Every(time.Millisecond, func(context.Context) error { return failure }).Run(context.Background())
	require.Equal(t, failure, err)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	a, b := errors.New("a"), io.EOF
	err := errs.Add(a, nil, b).Aggregate()
	require.Equal(t, "multiple errors:\na\nEOF", err.Error())
	require.True(t, errors.Is(err, io.EOF))
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var closed int
	closer := closerFunc(func() error {
		closed++
		close(unblock)
		return nil
	})
	go cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return io.EOF
	})
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 1, closed)

	closed = 0
	err = RunWithContextCloser(context.Background(), closerFunc(func() error {
		closed++
		return nil
	}), func() error { return io.EOF })
	require.Equal(t, io.EOF, err)
	require.Equal(t, 1, closed)
}
