// Package jobs provides scheduled background tasks for the dispatcher.
//
// Jobs are cron-driven through github.com/robfig/cron/v3 and grouped in a
// JobManager:
//
//	manager := jobs.NewJobManager()
//	manager.Add("batch_assignment", jobs.NewBatchAssignmentJob(pending, batchHandler, "*/5 * * * * *", 50, logger))
//
//	if err := manager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll()
//
// # Available Jobs
//
// BatchAssignmentJob pulls the oldest pending orders on every tick and hands
// them to the batch handler, which serves urgent orders first. Ticks never
// overlap: a tick that fires while the previous batch is still running is
// skipped.
//
// # Shutdown
//
// Stopping a job cancels the batch in flight. The orders it had not reached
// are reported as failed for that run and remain pending in the store.
package jobs
