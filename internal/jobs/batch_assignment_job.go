package jobs

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	DefaultBatchSchedule = "*/5 * * * * *"
	DefaultPendingLimit  = 50
)

// BatchAssigner runs one batch of assignments.
type BatchAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignBatchCommand) (commands.BatchResults, error)
}

// BatchAssignmentJob periodically pulls pending orders and assigns them as a
// batch. A tick is skipped while the previous one is still running.
type BatchAssignmentJob struct {
	pending  ports.PendingOrderSource
	assigner BatchAssigner
	schedule string
	limit    int
	cron     *cron.Cron
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewBatchAssignmentJob creates the job. schedule is a six-field cron
// expression (with seconds); empty means DefaultBatchSchedule. limit <= 0
// means DefaultPendingLimit.
func NewBatchAssignmentJob(
	pending ports.PendingOrderSource,
	assigner BatchAssigner,
	schedule string,
	limit int,
	logger *slog.Logger,
) *BatchAssignmentJob {
	if schedule == "" {
		schedule = DefaultBatchSchedule
	}
	if limit <= 0 {
		limit = DefaultPendingLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &BatchAssignmentJob{
		pending:  pending,
		assigner: assigner,
		schedule: schedule,
		limit:    limit,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "batch_assignment_job"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (j *BatchAssignmentJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(j.ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Batch assignment job started", "schedule", j.schedule, "limit", j.limit)
	return nil
}

// Stop cancels a running batch and waits for it to return. Orders the batch
// had not reached yet stay pending for the next run.
func (j *BatchAssignmentJob) Stop() {
	j.once.Do(func() {
		j.cancel()
		<-j.cron.Stop().Done()
		j.logger.Info("Batch assignment job stopped")
	})
}

// RunOnce assigns up to limit pending orders and reports how many succeeded.
func (j *BatchAssignmentJob) RunOnce(ctx context.Context) (assigned, failed int) {
	orders, err := j.pending.ListPending(ctx, j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Listing pending orders failed", "error", err)
		return 0, 0
	}
	if len(orders) == 0 {
		return 0, 0
	}

	cmd, err := commands.NewAssignBatchCommand(orders)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pending orders rejected", "error", err)
		return 0, 0
	}

	results, err := j.assigner.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Batch assignment failed", "error", err)
		return 0, 0
	}

	for _, r := range results {
		if r.Success {
			assigned++
		} else {
			failed++
		}
	}
	j.logger.InfoContext(ctx, "Batch assignment finished", "assigned", assigned, "unassigned", failed)
	return assigned, failed
}
