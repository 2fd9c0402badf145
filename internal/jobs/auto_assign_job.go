package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// AutoAssignJob periodically hands Ready orders to the first Available
// courier, acting as the system admin.
type AutoAssignJob struct {
	orders   ports.OrderRepository
	handler  commands.AssignCourierCommandHandler
	system   actor.Actor
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAutoAssignJob creates the job. schedule is a cron expression with a
// seconds field, e.g. "*/5 * * * * *".
func NewAutoAssignJob(
	orders ports.OrderRepository,
	handler commands.AssignCourierCommandHandler,
	system actor.Actor,
	schedule string,
	logger *slog.Logger,
) *AutoAssignJob {
	return &AutoAssignJob{
		orders:   orders,
		handler:  handler,
		system:   system,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "auto_assign_job"),
	}
}

// Start registers the schedule and starts the cron runner.
func (j *AutoAssignJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto-assign job started", "schedule", j.schedule)
	return nil
}

// Stop stops the cron runner and waits for a running pass to finish.
func (j *AutoAssignJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto-assign job stopped")
}

// Run performs one pass and returns how many orders were assigned.
// The pass ends early once no courier is available.
func (j *AutoAssignJob) Run(ctx context.Context) int {
	ready := order.Ready
	orders, err := j.orders.List(ctx, ports.OrderFilter{Status: &ready})
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list ready orders", "error", err)
		return 0
	}

	assigned := 0
	for _, o := range orders {
		if o.Courier() != nil {
			continue
		}

		cmd, err := commands.NewAssignCourierCommand(o.ID(), j.system)
		if err != nil {
			j.logger.ErrorContext(ctx, "Invalid assign command", "order_id", o.ID(), "error", err)
			return assigned
		}

		_, err = j.handler.Handle(ctx, cmd)
		switch {
		case err == nil:
			assigned++
		case errors.Is(err, services.ErrNoCourierAvailable):
			return assigned
		case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
			// claimed or cancelled since the list was read
			j.logger.DebugContext(ctx, "Order changed before assignment", "order_id", o.ID(), "error", err)
		default:
			j.logger.ErrorContext(ctx, "Auto-assign failed", "order_id", o.ID(), "error", err)
		}
	}
	return assigned
}
