// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules accept the six-field cron syntax (with seconds) as well as
// descriptors such as "@every 30s".
//
// # Available Jobs
//
// 1. RedispatchJob - retries partner assignment for accepted delivery orders
// that still have no partner (default every 30 seconds)
// 2. RefundRetryJob - re-executes failed refunds below the attempt limit
// (default every 5 minutes) and reports refunds stuck in initiated as
// reconciliation warnings
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewRedispatchJob(unassignedHandler, assignHandler, cfg.RedispatchSchedule, logger),
//		jobs.NewRefundRetryJob(failedRefundsHandler, stuckRefundsHandler, refundHandler,
//			cfg.RefundRetrySchedule, 0, 0, logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failure on one order or refund is logged and the pass moves on
// - A pass that is still running when the next tick fires is skipped
// - Failed job starts will stop any already running jobs
package jobs
