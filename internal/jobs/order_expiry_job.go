package jobs

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	OrderExpiryJobName = "order_expiry"

	// DefaultOrderExpirySchedule runs the job at the start of every minute.
	DefaultOrderExpirySchedule = "0 * * * * *"
	DefaultOrderExpiryBatch    = 100

	// maxBatchesPerRun bounds one run so a backlog cannot keep it busy past the next tick.
	maxBatchesPerRun = 50
)

// ExpireUnassignedOrdersHandler is satisfied by commands.ExpireUnassignedOrdersCommandHandler.
type ExpireUnassignedOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireUnassignedOrdersCommand) (int, error)
}

// JobMetrics is satisfied by *metrics.CronJobMetrics.
type JobMetrics interface {
	ObserveDuration(job string, duration time.Duration)
	IncSuccess(job string)
	IncFailure(job string)
}

type OrderExpiryConfig struct {
	// Schedule is a cron expression with a seconds field.
	Schedule string
	// Grace is how long past its pickup time an order may wait for a driver.
	Grace     time.Duration
	BatchSize int
}

// OrderExpiryJob cancels orders that are still unassigned once their pickup time
// lies more than the grace period in the past. A run that is still busy when the
// next tick fires makes that tick skip.
type OrderExpiryJob struct {
	handler ExpireUnassignedOrdersHandler
	cfg     OrderExpiryConfig
	metrics JobMetrics
	log     *logger.Logger
	now     func() time.Time
	cron    *cron.Cron
}

func NewOrderExpiryJob(
	handler ExpireUnassignedOrdersHandler,
	cfg OrderExpiryConfig,
	metrics JobMetrics,
	log *logger.Logger,
) *OrderExpiryJob {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultOrderExpirySchedule
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultOrderExpiryBatch
	}
	if log == nil {
		log = logger.Nop()
	}
	cronLog := cronLogger{log: log, job: OrderExpiryJobName}

	return &OrderExpiryJob{
		handler: handler,
		cfg:     cfg,
		metrics: metrics,
		log:     log,
		now:     time.Now,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
}

func (j *OrderExpiryJob) Name() string {
	return OrderExpiryJobName
}

// Start schedules the job. An invalid schedule is reported here.
func (j *OrderExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.cfg.Schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", j.cfg.Schedule, err)
	}

	j.cron.Start()
	j.log.Info(j.log.WithField(context.Background(), "schedule", j.cfg.Schedule), "order expiry job started")
	return nil
}

// Stop prevents new runs and waits for a running one to finish.
func (j *OrderExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info(context.Background(), "order expiry job stopped")
}

// RunOnce expires batches until a batch comes back short. It returns the number
// of cancelled orders.
func (j *OrderExpiryJob) RunOnce(ctx context.Context) (int, error) {
	start := j.now()
	ctx = j.log.WithField(ctx, "job", OrderExpiryJobName)

	cutoff := start.Add(-j.cfg.Grace)
	cmd, err := commands.NewExpireUnassignedOrdersCommand(cutoff, j.cfg.BatchSize)
	if err != nil {
		j.finish(ctx, start, 0, err)
		return 0, err
	}

	total := 0
	for batch := 0; batch < maxBatchesPerRun; batch++ {
		var expired int
		expired, err = j.handler.Handle(ctx, cmd)
		total += expired
		if err != nil || expired < j.cfg.BatchSize || ctx.Err() != nil {
			break
		}
	}

	j.finish(ctx, start, total, err)
	return total, err
}

func (j *OrderExpiryJob) finish(ctx context.Context, start time.Time, expired int, err error) {
	if j.metrics != nil {
		j.metrics.ObserveDuration(OrderExpiryJobName, j.now().Sub(start))
		if err != nil {
			j.metrics.IncFailure(OrderExpiryJobName)
		} else {
			j.metrics.IncSuccess(OrderExpiryJobName)
		}
	}

	ctx = j.log.WithField(ctx, "expired", expired)
	if err != nil {
		j.log.Error(ctx, "order expiry run failed", err)
		return
	}
	if expired > 0 {
		j.log.Info(ctx, "expired unassigned orders")
	}
}

// cronLogger routes the scheduler's own messages through the service logger.
type cronLogger struct {
	log *logger.Logger
	job string
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(l.fields(keysAndValues), "cron: "+msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(l.fields(keysAndValues), "cron: "+msg, err)
}

func (l cronLogger) fields(keysAndValues []any) context.Context {
	fields := map[string]any{"job": l.job}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return l.log.WithFields(context.Background(), fields)
}
