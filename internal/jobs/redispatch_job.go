package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultRedispatchSchedule retries dispatch for unassigned orders every 30 seconds.
const DefaultRedispatchSchedule = "@every 30s"

const redispatchBatchSize = 50

type unassignedOrdersReader interface {
	Handle(ctx context.Context, query queries.GetUnassignedOrdersQuery) ([]queries.GetUnassignedOrdersQueryResponse, error)
}

type partnerAssigner interface {
	Handle(ctx context.Context, command commands.AssignPartnerCommand) (commands.AssignmentResult, error)
}

// RedispatchJob retries partner assignment for accepted delivery orders that
// still have no partner, oldest first.
type RedispatchJob struct {
	orders   unassignedOrdersReader
	assigner partnerAssigner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewRedispatchJob(
	orders unassignedOrdersReader,
	assigner partnerAssigner,
	schedule string,
	logger *slog.Logger,
) *RedispatchJob {
	if schedule == "" {
		schedule = DefaultRedispatchSchedule
	}
	return &RedispatchJob{
		orders:   orders,
		assigner: assigner,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "redispatch_job"),
	}
}

// RunOnce scans one batch of unassigned orders and returns how many got a
// partner. A failure on one order does not stop the batch.
func (j *RedispatchJob) RunOnce(ctx context.Context) (int, error) {
	query, err := queries.NewGetUnassignedOrdersQuery(redispatchBatchSize)
	if err != nil {
		return 0, err
	}

	pending, err := j.orders.Handle(ctx, query)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, o := range pending {
		cmd, cmdErr := commands.NewAssignPartnerCommand(o.ID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Skipping order with invalid id", "order_number", o.Number, "error", cmdErr)
			continue
		}

		result, assignErr := j.assigner.Handle(ctx, cmd)
		if assignErr != nil {
			j.logger.ErrorContext(ctx, "Redispatch failed", "order_number", o.Number, "error", assignErr)
			continue
		}
		if result.Outcome == commands.AssignmentAssigned {
			assigned++
		}
	}

	if len(pending) > 0 {
		j.logger.InfoContext(ctx, "Redispatch pass finished", "scanned", len(pending), "assigned", assigned)
	}
	return assigned, nil
}

// Start schedules the job.
func (j *RedispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Redispatch job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Redispatch job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *RedispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Redispatch job stopped")
}
