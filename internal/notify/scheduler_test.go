package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (c *countingRunner) Run(context.Context) (int, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&countingRunner{}, "every now and then")

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid digest schedule")
}

func TestScheduler_StartStop(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, "@every 1h")

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.Equal(t, int32(0), runner.calls.Load(), "nothing runs before the first tick")
}

func TestScheduler_RunOnce(t *testing.T) {
	runner := &countingRunner{err: errors.New("boom")}
	s := NewScheduler(runner, "@every 1h")

	s.runOnce(context.Background())
	assert.Equal(t, int32(1), runner.calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.runOnce(ctx)
	assert.Equal(t, int32(1), runner.calls.Load(), "cancelled context skips the run")
}
