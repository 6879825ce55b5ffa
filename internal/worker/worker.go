// Package worker runs the bank's background jobs on a cron scheduler.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job names, also used as metric labels
const (
	JobExternalTransfers = "external_transfers"
	JobIdempotencyPurge  = "idempotency_purge"
)

const purgeSchedule = "@hourly"

// TransferProcessor settles queued external transfers
type TransferProcessor interface {
	ProcessOpenTransfers(ctx context.Context) error
}

// KeyPurger removes stored idempotency responses
type KeyPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// JobObserver records job runs
type JobObserver interface {
	ObserveJob(job string, started time.Time, err error)
}

// Config controls job schedules
type Config struct {
	TransferInterval time.Duration
	IdempotencyTTL   time.Duration
}

// Worker drains external transfers at a fixed interval and purges expired idempotency keys.
// Panicking jobs are recovered and a run still in progress makes the next tick skip.
type Worker struct {
	cron      *cron.Cron
	transfers TransferProcessor
	keys      KeyPurger
	observer  JobObserver
	logger    *slog.Logger
	cfg       Config
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a worker. keys and observer may be nil.
func New(transfers TransferProcessor, keys KeyPurger, observer JobObserver, cfg Config, logger *slog.Logger) *Worker {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Worker{
		cron:      c,
		transfers: transfers,
		keys:      keys,
		observer:  observer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Start registers the jobs and starts the scheduler. Jobs run with a context
// derived from ctx that is cancelled by Stop.
func (w *Worker) Start(ctx context.Context) error {
	if w.cfg.TransferInterval <= 0 {
		return fmt.Errorf("external transfer interval must be positive, got %s", w.cfg.TransferInterval)
	}

	w.ctx, w.cancel = context.WithCancel(ctx)

	schedule := "@every " + w.cfg.TransferInterval.String()
	if _, err := w.cron.AddFunc(schedule, w.DrainExternalTransfers); err != nil {
		w.cancel()
		return fmt.Errorf("failed to schedule external transfer job: %w", err)
	}
	w.logger.Info("scheduled external transfer job", "schedule", schedule)

	if w.keys != nil && w.cfg.IdempotencyTTL > 0 {
		if _, err := w.cron.AddFunc(purgeSchedule, w.PurgeIdempotencyKeys); err != nil {
			w.cancel()
			return fmt.Errorf("failed to schedule idempotency purge job: %w", err)
		}
		w.logger.Info("scheduled idempotency purge job", "schedule", purgeSchedule, "ttl", w.cfg.IdempotencyTTL)
	}

	w.cron.Start()
	return nil
}

// Stop stops scheduling new runs and blocks until running jobs return.
// A drain cycle in progress stops before its next transfer, the current one still settles.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.cron.Stop().Done()
	w.logger.Info("background jobs stopped")
}

// DrainExternalTransfers runs one external transfer settlement cycle
func (w *Worker) DrainExternalTransfers() {
	started := time.Now()
	err := w.transfers.ProcessOpenTransfers(w.jobContext())
	if err != nil {
		w.logger.Error("external transfer cycle failed", "error", err)
	}
	w.observe(JobExternalTransfers, started, err)
}

// PurgeIdempotencyKeys deletes stored responses older than the configured TTL
func (w *Worker) PurgeIdempotencyKeys() {
	if w.keys == nil {
		return
	}

	started := time.Now()
	deleted, err := w.keys.DeleteOlderThan(w.jobContext(), started.Add(-w.cfg.IdempotencyTTL))
	if err != nil {
		w.logger.Error("idempotency purge failed", "error", err)
	} else if deleted > 0 {
		w.logger.Info("purged idempotency keys", "deleted", deleted)
	}
	w.observe(JobIdempotencyPurge, started, err)
}

func (w *Worker) jobContext() context.Context {
	if w.ctx == nil {
		return context.Background()
	}
	return w.ctx
}

func (w *Worker) observe(job string, started time.Time, err error) {
	if w.observer != nil {
		w.observer.ObserveJob(job, started, err)
	}
}
