package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	redispatchJob  *RedispatchJob
	refundRetryJob *RefundRetryJob
}

// NewJobManager groups the jobs. The refund retry job is optional and is
// left out when no payment gateway is configured.
func NewJobManager(redispatchJob *RedispatchJob, refundRetryJob *RefundRetryJob) *JobManager {
	return &JobManager{
		redispatchJob:  redispatchJob,
		refundRetryJob: refundRetryJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.redispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start redispatch job: %w", err)
	}

	if jm.refundRetryJob == nil {
		return nil
	}

	if err := jm.refundRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.redispatchJob.Stop()
		return fmt.Errorf("failed to start refund retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.refundRetryJob != nil {
		jm.refundRetryJob.Stop()
	}
	jm.redispatchJob.Stop()
}
