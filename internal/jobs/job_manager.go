package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// runObserver records the outcome of every job run.
type runObserver interface {
	ObserveJobRun(job string, err error)
}

// newCron parses six-field specs in UTC and never overlaps runs of the same job.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	assignmentTimeoutJob *AssignmentTimeoutJob
	settlementJob        *SettlementJob
}

func NewJobManager(assignmentTimeoutJob *AssignmentTimeoutJob, settlementJob *SettlementJob) *JobManager {
	return &JobManager{
		assignmentTimeoutJob: assignmentTimeoutJob,
		settlementJob:        settlementJob,
	}
}

// StartAll starts all scheduled jobs. The settlement job is skipped when it has no spec.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment timeout job: %w", err)
	}

	if !jm.settlementJob.Scheduled() {
		return nil
	}
	if err := jm.settlementJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentTimeoutJob.Stop()
		return fmt.Errorf("failed to start settlement job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	if jm.settlementJob.Scheduled() {
		jm.settlementJob.Stop()
	}
	jm.assignmentTimeoutJob.Stop()
}
