package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)

	job := &countingJob{}
	require.NoError(t, s.RunNow(context.Background(), job))
	assert.Equal(t, int32(1), job.runs.Load())

	job.err = errors.New("boom")
	assert.EqualError(t, s.RunNow(context.Background(), job), "boom")
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestScheduler_RunNowAppliesTimeout(t *testing.T) {
	s := New(zerolog.Nop(), 10*time.Millisecond)

	job := NewFuncJob("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := s.RunNow(context.Background(), job)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)

	require.NoError(t, s.AddJob("@every 1h", &countingJob{}))
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_FiresScheduledJob(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)

	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s := New(zerolog.Nop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
