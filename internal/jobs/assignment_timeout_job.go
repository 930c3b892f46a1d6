package jobs

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const assignmentTimeoutJobName = "assignment_timeout"

type staleAssignmentsReopener interface {
	Handle(ctx context.Context, cmd commands.ReopenStaleAssignmentsCommand) (int, error)
}

// AssignmentTimeoutJob returns deliveries that stayed ASSIGNED past the acceptance
// timeout to the waiting pool.
type AssignmentTimeoutJob struct {
	handler   staleAssignmentsReopener
	spec      string
	timeout   time.Duration
	batchSize int
	observer  runObserver
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAssignmentTimeoutJob schedules the sweep with a six-field cron spec (seconds first).
func NewAssignmentTimeoutJob(
	handler staleAssignmentsReopener,
	spec string,
	timeout time.Duration,
	batchSize int,
	observer runObserver,
	logger *slog.Logger,
) *AssignmentTimeoutJob {
	return &AssignmentTimeoutJob{
		handler:   handler,
		spec:      spec,
		timeout:   timeout,
		batchSize: batchSize,
		observer:  observer,
		cron:      newCron(),
		logger:    logger.With("component", "assignment_timeout_job"),
	}
}

func (j *AssignmentTimeoutJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { _ = j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment timeout job started",
		"schedule", j.spec, "timeout", j.timeout)
	return nil
}

// RunOnce performs a single sweep.
func (j *AssignmentTimeoutJob) RunOnce(ctx context.Context) error {
	cmd, err := commands.NewReopenStaleAssignmentsCommand(j.timeout, j.batchSize)
	if err != nil {
		j.observe(err)
		j.logger.ErrorContext(ctx, "Assignment timeout job misconfigured", "error", err)
		return err
	}

	reopened, err := j.handler.Handle(ctx, cmd)
	j.observe(err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Assignment timeout job failed", "reopened", reopened, "error", err)
		return err
	}
	if reopened > 0 {
		j.logger.InfoContext(ctx, "Stale assignments reopened", "count", reopened)
	}
	return nil
}

func (j *AssignmentTimeoutJob) observe(err error) {
	if j.observer != nil {
		j.observer.ObserveJobRun(assignmentTimeoutJobName, err)
	}
}

func (j *AssignmentTimeoutJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Assignment timeout job stopped")
}
