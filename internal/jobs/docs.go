// Package jobs provides scheduled background tasks of the fulfillment engine.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field schedules with seconds)
// and run as the system actor.
//
// # Available Jobs
//
// OrderExpiryJob cancels orders still waiting for a driver once their pickup time
// lies more than a grace period in the past. The cancellation is flagged as
// caused by missing driver availability, so the order may be rescheduled.
//
// # Usage
//
//	expiry := jobs.NewOrderExpiryJob(expireHandler, jobs.OrderExpiryConfig{
//		Schedule: "0 * * * * *",
//		Grace:    15 * time.Minute,
//	}, cronMetrics, log)
//
//	jobManager := jobs.NewJobManager(expiry)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and counted in job_failure; the next tick runs again.
// A failed start stops the jobs already started.
package jobs
