package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-server-go/pkg/logger"
)

type countingJob struct {
	runs  atomic.Int32
	err   error
	panic bool
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Execute(context.Context) error {
	j.runs.Add(1)
	if j.panic {
		panic("boom")
	}
	return j.err
}

func TestRunOnce(t *testing.T) {
	s := NewScheduler(logger.Discard(), time.Second)
	job := &countingJob{}
	s.AddJob(job, time.Hour)

	require.NoError(t, s.RunOnce("counting"))
	assert.Equal(t, int32(1), job.runs.Load())

	job.err = errors.New("store down")
	assert.ErrorIs(t, s.RunOnce("counting"), job.err)

	job.err = nil
	job.panic = true
	assert.Error(t, s.RunOnce("counting"))

	assert.Error(t, s.RunOnce("missing"))
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(logger.Discard(), time.Second)
	job := &countingJob{}
	s.AddJob(job, 5*time.Millisecond)

	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := job.runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, job.runs.Load())
	s.Stop()
}
