package jobs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const settlementJobName = "settlement"

type periodSettler interface {
	Handle(ctx context.Context, cmd commands.SettlePeriodCommand) (commands.SettlePeriodResult, error)
}

// SettlementJob settles the previous UTC day for every owner and courier.
// An empty spec leaves it unscheduled; settlements are then created on demand only.
type SettlementJob struct {
	handler  periodSettler
	spec     string
	observer runObserver
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSettlementJob(handler periodSettler, spec string, observer runObserver, logger *slog.Logger) *SettlementJob {
	return &SettlementJob{
		handler:  handler,
		spec:     spec,
		observer: observer,
		now:      time.Now,
		cron:     newCron(),
		logger:   logger.With("component", "settlement_job"),
	}
}

// Scheduled reports whether the job has a cron spec to run on.
func (j *SettlementJob) Scheduled() bool {
	return strings.TrimSpace(j.spec) != ""
}

func (j *SettlementJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { _ = j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Settlement job started", "schedule", j.spec)
	return nil
}

// RunOnce settles the day before the current time. Per-party failures are
// reported in the result and do not fail the run.
func (j *SettlementJob) RunOnce(ctx context.Context) error {
	cmd, err := commands.NewSettlePeriodCommandForPreviousDay(j.now())
	if err != nil {
		j.observe(err)
		return err
	}

	result, err := j.handler.Handle(ctx, cmd)
	j.observe(err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Settlement job failed", "period", cmd.Period().String(), "error", err)
		return err
	}

	j.logger.InfoContext(ctx, "Settlement job finished",
		"period", cmd.Period().String(),
		"backfilled", result.Backfilled,
		"owner_settlements", result.OwnerSettlements,
		"courier_settlements", result.CourierSettlements,
		"failures", result.Failures,
	)
	return nil
}

func (j *SettlementJob) observe(err error) {
	if j.observer != nil {
		j.observer.ObserveJobRun(settlementJobName, err)
	}
}

func (j *SettlementJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Settlement job stopped")
}
