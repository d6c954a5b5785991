package schedule

import (
	"context"
	"time"

	"github.com/rs/xid"
)

// scheduledRun is a single scheduled Runner execution
type scheduledRun struct {
	at       time.Time
	runner   Runner
	runnerID xid.ID
}

// Less is utilized to sort scheduled runs by their due-time (latest == first)
func (a scheduledRun) Less(b scheduledRun) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the runner routine
type workerInfo struct {
	runner   Runner
	resCh    chan<- *workerResponse
	runnerID xid.ID
}

// workerResponse is the runner routine response
type workerResponse struct {
	error    error  // encountered error, if any
	runnerID xid.ID // the runner ID
}

// handleJob executes the runner's job
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	err := info.runner.Run(ctx)

	response := &workerResponse{
		error:    err,
		runnerID: info.runnerID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
