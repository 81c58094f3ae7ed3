// File: internal/infra/sched/reconcile_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ftth-billing/internal/infra/metrics"
	"ftth-billing/internal/usecase"
)

// ReconcileWorker periodically diffs the gateway's settled invoices
// against local state. This covers webhooks that never arrived or a
// crash mid-settlement.
type ReconcileWorker struct {
	uc       usecase.PaymentUseCase
	interval time.Duration
	log      zerolog.Logger
}

func NewReconcileWorker(uc usecase.PaymentUseCase, interval time.Duration, logger *zerolog.Logger) *ReconcileWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReconcileWorker{
		uc:       uc,
		interval: interval,
		log:      logger.With().Str("component", "reconcile-worker").Logger(),
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *ReconcileWorker) tick(ctx context.Context) {
	start := time.Now()
	tally, err := w.uc.Reconcile(ctx, start)
	metrics.ObserveJobDuration("reconcile", time.Since(start).Seconds())
	if err != nil {
		metrics.IncJobRun("reconcile", "failed")
		w.log.Error().Err(err).Msg("reconcile tick failed")
		return
	}
	metrics.IncJobRun("reconcile", "completed")
	if tally.Total() > 0 {
		w.log.Info().Int("settled", tally.OK).Int("failed", tally.Fatal).Msg("reconcile tick finished")
	}
}
