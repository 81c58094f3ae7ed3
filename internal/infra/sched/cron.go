// File: internal/infra/sched/cron.go
package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ftth-billing/internal/config"
	"ftth-billing/internal/domain"
	"ftth-billing/internal/infra/logging"
	"ftth-billing/internal/infra/metrics"
	"ftth-billing/internal/usecase"
)

// BillingCron drives the calendar-bound jobs: invoice generation,
// suspension, retroactive suspension, and reminders. Interval jobs
// (reconcile, retries) run off tickers instead, see the workers in
// this package.
type BillingCron struct {
	cron *cron.Cron
	log  zerolog.Logger
}

type JobFunc func(ctx context.Context, now time.Time) (domain.Tally, error)

func NewBillingCron(
	cfg config.SchedulerConfig,
	invoiceUC usecase.InvoiceUseCase,
	suspendUC usecase.SuspendUseCase,
	reminderUC usecase.ReminderUseCase,
	useLocationBatching bool,
	logger *zerolog.Logger,
) (*BillingCron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	log := logger.With().Str("component", "billing-cron").Logger()
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		),
	)

	b := &BillingCron{cron: c, log: log}

	suspend := suspendUC.SuspendOverdue
	if useLocationBatching {
		suspend = suspendUC.SuspendOverdueByLocation
	}

	jobs := []struct {
		name string
		spec string
		fn   JobFunc
	}{
		{"invoice-generation", cfg.InvoiceCron, invoiceUC.GenerateDue},
		{"suspension", cfg.SuspendCron, suspend},
		{"suspension-retroactive", cfg.RetroactiveCron, suspend},
		{"reminders", cfg.ReminderCron, reminderUC.RemindUpcoming},
	}
	for _, j := range jobs {
		j := j
		if _, err := c.AddFunc(j.spec, func() { b.run(j.name, j.fn) }); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", j.name, j.spec, err)
		}
	}
	return b, nil
}

func (b *BillingCron) run(name string, fn JobFunc) {
	start := time.Now()
	b.log.Info().Str("job", name).Msg("job started")

	tally, err := fn(logging.WithJobName(context.Background(), name), start)
	elapsed := time.Since(start)
	metrics.ObserveJobDuration(name, elapsed.Seconds())
	if err != nil {
		metrics.IncJobRun(name, "failed")
		b.log.Error().Err(err).Str("job", name).Dur("duration", elapsed).Msg("job failed")
		return
	}
	metrics.IncJobRun(name, "completed")
	b.log.Info().
		Str("job", name).
		Dur("duration", elapsed).
		Int("ok", tally.OK).
		Int("skipped", tally.Skipped).
		Int("retryable", tally.Retryable).
		Int("fatal", tally.Fatal).
		Msg("job completed")
}

// RunNow triggers a named job out of schedule, for the admin API.
func (b *BillingCron) RunNow(name string, fn JobFunc) {
	go b.run(name, fn)
}

func (b *BillingCron) Start() { b.cron.Start() }

// Stop halts scheduling and waits for running jobs to finish.
func (b *BillingCron) Stop() context.Context { return b.cron.Stop() }
