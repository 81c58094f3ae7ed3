// File: internal/infra/sched/retry_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ftth-billing/internal/infra/metrics"
	"ftth-billing/internal/usecase"
)

// InvoiceRetryWorker re-attempts payment-link creation for invoices
// saved without one during a gateway outage.
type InvoiceRetryWorker struct {
	uc       usecase.InvoiceUseCase
	interval time.Duration
	log      zerolog.Logger
}

func NewInvoiceRetryWorker(uc usecase.InvoiceUseCase, interval time.Duration, logger *zerolog.Logger) *InvoiceRetryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &InvoiceRetryWorker{
		uc:       uc,
		interval: interval,
		log:      logger.With().Str("component", "invoice-retry-worker").Logger(),
	}
}

func (w *InvoiceRetryWorker) Start(ctx context.Context) {
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

func (w *InvoiceRetryWorker) tick(ctx context.Context) {
	start := time.Now()
	tally, err := w.uc.RetryFailed(ctx, start)
	metrics.ObserveJobDuration("invoice-retry", time.Since(start).Seconds())
	if err != nil {
		metrics.IncJobRun("invoice-retry", "failed")
		w.log.Error().Err(err).Msg("invoice retry tick failed")
		return
	}
	metrics.IncJobRun("invoice-retry", "completed")
	if tally.Total() > 0 {
		w.log.Info().Int("recovered", tally.OK).Int("exhausted", tally.Fatal).Msg("invoice retry tick finished")
	}
}

// RouterSyncWorker drains technical records flagged sync_pending after
// a failed router call.
type RouterSyncWorker struct {
	uc       usecase.RouterSyncUseCase
	interval time.Duration
	log      zerolog.Logger
}

func NewRouterSyncWorker(uc usecase.RouterSyncUseCase, interval time.Duration, logger *zerolog.Logger) *RouterSyncWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RouterSyncWorker{
		uc:       uc,
		interval: interval,
		log:      logger.With().Str("component", "router-sync-worker").Logger(),
	}
}

func (w *RouterSyncWorker) Start(ctx context.Context) {
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

func (w *RouterSyncWorker) tick(ctx context.Context) {
	start := time.Now()
	tally, err := w.uc.SyncPending(ctx)
	metrics.ObserveJobDuration("router-sync", time.Since(start).Seconds())
	if err != nil {
		metrics.IncJobRun("router-sync", "failed")
		w.log.Error().Err(err).Msg("router sync tick failed")
		return
	}
	metrics.IncJobRun("router-sync", "completed")
	if tally.Total() > 0 {
		w.log.Info().Int("synced", tally.OK).Int("pending", tally.Retryable).Msg("router sync tick finished")
	}
}
