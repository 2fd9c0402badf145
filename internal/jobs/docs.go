// Package jobs provides scheduled background tasks for the order service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field in the schedule.
//
// # Available Jobs
//
// AutoAssignJob lists Ready orders without a courier and runs auto-assign on
// each of them as the system admin, so orders do not wait for a courier to
// claim them. The schedule comes from AUTO_ASSIGN_SCHEDULE; an empty value
// leaves the job unregistered.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(logger)
//	jobManager.Add("auto-assign", jobs.NewAutoAssignJob(orders, assignHandler, system, "*/5 * * * * *", logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - a pass stops at the first NoCourierAvailable
//   - orders that were claimed or cancelled meanwhile are skipped
//   - any other failure is logged and the pass moves on
package jobs
