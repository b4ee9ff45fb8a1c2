package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultRefundRetrySchedule re-executes failed refunds every five minutes.
	DefaultRefundRetrySchedule = "@every 5m"

	// DefaultRefundMaxAttempts is the number of gateway attempts after which
	// a refund is left for manual handling.
	DefaultRefundMaxAttempts = 5

	// DefaultStuckRefundAfter is how long a refund may stay initiated before
	// it is reported for manual review.
	DefaultStuckRefundAfter = 15 * time.Minute

	refundRetryBatchSize = 20
)

type failedRefundsReader interface {
	Handle(ctx context.Context, query queries.GetFailedRefundsQuery) ([]queries.GetFailedRefundsQueryResponse, error)
}

type stuckRefundsReader interface {
	Handle(ctx context.Context, query queries.GetStuckRefundsQuery) ([]queries.GetStuckRefundsQueryResponse, error)
}

type refundExecutor interface {
	Handle(ctx context.Context, command commands.ExecuteRefundCommand) (commands.ExecuteRefundResult, error)
}

// RefundRetryJob re-executes refunds whose last gateway call failed, up to a
// maximum number of attempts per settlement. Refunds left in initiated for
// longer than stuckAfter are never retried: the gateway may already have paid
// them out. Each pass logs them as reconciliation warnings instead.
type RefundRetryJob struct {
	refunds     failedRefundsReader
	stuck       stuckRefundsReader
	executor    refundExecutor
	schedule    string
	maxAttempts int
	stuckAfter  time.Duration
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewRefundRetryJob builds the job. stuck may be nil to skip the stuck
// refund report.
func NewRefundRetryJob(
	refunds failedRefundsReader,
	stuck stuckRefundsReader,
	executor refundExecutor,
	schedule string,
	maxAttempts int,
	stuckAfter time.Duration,
	logger *slog.Logger,
) *RefundRetryJob {
	if schedule == "" {
		schedule = DefaultRefundRetrySchedule
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultRefundMaxAttempts
	}
	if stuckAfter <= 0 {
		stuckAfter = DefaultStuckRefundAfter
	}
	return &RefundRetryJob{
		refunds:     refunds,
		stuck:       stuck,
		executor:    executor,
		schedule:    schedule,
		maxAttempts: maxAttempts,
		stuckAfter:  stuckAfter,
		cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:      logger.With("component", "refund_retry_job"),
	}
}

// RunOnce retries one batch of failed refunds and returns how many were
// processed by the gateway this time.
func (j *RefundRetryJob) RunOnce(ctx context.Context) (int, error) {
	query, err := queries.NewGetFailedRefundsQuery(refundRetryBatchSize, j.maxAttempts)
	if err != nil {
		return 0, err
	}

	failed, err := j.refunds.Handle(ctx, query)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, r := range failed {
		cmd, cmdErr := commands.NewExecuteRefundCommand(r.OrderID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Skipping refund with invalid order id", "order_number", r.OrderNumber, "error", cmdErr)
			continue
		}

		result, execErr := j.executor.Handle(ctx, cmd)
		if execErr != nil {
			j.logger.WarnContext(ctx, "Refund retry failed",
				"order_number", r.OrderNumber,
				"attempt", r.Attempts+1,
				"error", execErr,
			)
			continue
		}

		processed++
		j.logger.InfoContext(ctx, "Refund retried",
			"order_number", r.OrderNumber,
			"refund_id", result.RefundID,
			"status", string(result.RefundStatus),
		)
	}

	j.reportStuck(ctx)
	return processed, nil
}

// reportStuck logs every refund still initiated after stuckAfter.
func (j *RefundRetryJob) reportStuck(ctx context.Context) {
	if j.stuck == nil {
		return
	}

	query, err := queries.NewGetStuckRefundsQuery(refundRetryBatchSize, time.Now().UTC().Add(-j.stuckAfter))
	if err != nil {
		j.logger.ErrorContext(ctx, "Stuck refund query rejected", "error", err)
		return
	}
	stuck, err := j.stuck.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stuck refund lookup failed", "error", err)
		return
	}

	for _, r := range stuck {
		warning := errs.NewReconciliationWarning(r.OrderNumber, r.Amount, kernel.ZeroMoney(), r.Amount)
		j.logger.WarnContext(ctx, "Refund stuck in initiated, needs manual review",
			"order_number", r.OrderNumber,
			"initiated_at", r.InitiatedAt,
			"attempts", r.Attempts,
			"warning", warning,
		)
	}
}

// Start schedules the job.
func (j *RefundRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Refund retry job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Refund retry job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *RefundRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Refund retry job stopped")
}
