// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and use six-field specs with a
// leading seconds field, evaluated in UTC. A run that is still in progress when
// its next tick fires is skipped.
//
// # Available Jobs
//
// 1. AssignmentTimeoutJob - reopens deliveries that stayed ASSIGNED past the acceptance timeout
// 2. SettlementJob - settles the previous UTC day for every store owner and courier
//
// # Usage
//
//	timeoutJob := jobs.NewAssignmentTimeoutJob(reopenHandler, "0 * * * * *", 10*time.Minute, 100, m, logger)
//	settlementJob := jobs.NewSettlementJob(settleHandler, "0 0 1 * * *", m, logger)
//	jobManager := jobs.NewJobManager(timeoutJob, settlementJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Both jobs expose RunOnce for operations tooling and tests.
//
// # Error Handling
//
// - Every run is reported to the metrics observer with its outcome
// - Failed runs are logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
