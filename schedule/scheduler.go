package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidRunner   = errors.New("invalid runner")
	errInvalidInterval = errors.New("invalid interval")
)

// Scheduler is the main job scheduler for registered runners
type Scheduler struct {
	logger *slog.Logger

	registeredRunners sync.Map

	q             iq.Queue[scheduledRun]
	queryInterval time.Duration
	retryDelay    time.Duration
	qMux          sync.Mutex
}

// New creates a new Scheduler instance
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		q:             iq.NewQueue[scheduledRun](),
		queryInterval: time.Second,      // every second
		retryDelay:    time.Second * 10, // failed runs retry shortly
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register registers a new runner with the scheduler.
// The runner is immediately queued up for execution
func (s *Scheduler) Register(r Runner) error {
	if r == nil || r.Name() == "" {
		return errInvalidRunner
	}

	if r.Interval() <= 0 {
		return errInvalidInterval
	}

	// Register the runner
	id := xid.New()
	s.registeredRunners.Store(id, r)

	s.logger.Info(
		"registered new runner",
		"name", r.Name(),
	)

	// Schedule the job
	s.scheduleRun(
		time.Now().UTC(),
		id,
		r,
	)

	return nil
}

// Start starts the runner scheduling service loop [BLOCKING]
func (s *Scheduler) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(s.queryInterval)
	defer ticker.Stop()

	// handleRuns initializes all jobs that are executable (due)
	handleRuns := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				nextSR := s.nextRun()
				if nextSR == nil {
					return // nothing to schedule anymore
				}

				s.logger.Info(
					"scheduling run",
					"name", nextSR.runner.Name(),
				)

				// Spawn worker
				info := &workerInfo{
					runner:   nextSR.runner,
					runnerID: nextSR.runnerID,
					resCh:    collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due jobs (on boot)
	handleRuns()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler service shut down")
			close(collectorCh)

			return nil
		case <-ticker.C:
			handleRuns()
		case response := <-collectorCh:
			now := time.Now().UTC()

			rrRaw, ok := s.registeredRunners.Load(response.runnerID)

			if !ok {
				s.logger.Error(
					"unable to load registered runner",
					"id", response.runnerID.String(),
				)

				continue
			}

			rr, _ := rrRaw.(Runner)

			if response.error != nil {
				s.logger.Error(
					"error encountered during run",
					"id", response.runnerID.String(),
					"name", rr.Name(),
					"err", response.error.Error(),
				)

				// Retry the job soon
				s.scheduleRun(
					now.Add(s.retryDelay),
					response.runnerID,
					rr,
				)

				continue
			}

			s.logger.Info(
				"run complete",
				"name", rr.Name(),
			)

			// Schedule a new run for this runner
			s.scheduleRun(
				now.Add(rr.Interval()),
				response.runnerID,
				rr,
			)
		}
	}
}

// scheduleRun schedules a new runner execution
func (s *Scheduler) scheduleRun(
	at time.Time,
	runnerID xid.ID,
	runner Runner,
) {
	s.qMux.Lock()
	defer s.qMux.Unlock()

	futureSR := scheduledRun{
		at:       at,
		runnerID: runnerID,
		runner:   runner,
	}

	s.q.Push(futureSR)
}

// nextRun fetches the next due job, as of the moment of calling
func (s *Scheduler) nextRun() *scheduledRun {
	s.qMux.Lock()
	defer s.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if s.q.Len() == 0 {
		return nil // nothing to schedule, all jobs are running
	}

	// Check if the top element is due
	if s.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest job is in the future
	}

	// Grab the next job
	nextSR := s.q.PopFront()

	return nextSR
}
