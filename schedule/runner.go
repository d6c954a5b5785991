package schedule

import (
	"context"
	"time"
)

// Runner is a single recurring job managed by the scheduler
type Runner interface {
	// Name returns the human-readable name of the runner
	Name() string

	// Interval returns the interval at which the runner should be executed
	Interval() time.Duration

	// Run is the runner's main job
	Run(context.Context) error
}

// Job is a plain Runner built from a closure
type Job struct {
	fn       func(context.Context) error
	name     string
	interval time.Duration
}

// NewJob wraps the given closure into a schedulable Runner
func NewJob(
	name string,
	interval time.Duration,
	fn func(context.Context) error,
) *Job {
	return &Job{
		fn:       fn,
		name:     name,
		interval: interval,
	}
}

func (j *Job) Name() string { return j.name }

func (j *Job) Interval() time.Duration { return j.interval }

func (j *Job) Run(ctx context.Context) error { return j.fn(ctx) }
