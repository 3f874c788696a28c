// Package jobs provides scheduled background tasks for the checkout system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order processing.
//
// # Available Jobs
//
// 1. NotificationJob - Runs every five seconds to deliver queued outbox emails with retry backoff
// 2. ReservationSweeperJob - Runs every thirty seconds to release expired inventory holds
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(uowFactory, mailer, maxAttempts, backoffBase, inventory, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The notification job runs on "*/5 * * * * *" so queued emails leave promptly
// without hammering the SMTP relay; the sweeper runs on "*/30 * * * * *", which
// is frequent enough relative to the hold TTL.
//
// # Error Handling
//
// - A failed email delivery marks the message for a later attempt and never stops the batch
// - Sweeper failures are logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
