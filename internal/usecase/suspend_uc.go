// File: internal/usecase/suspend_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ftth-billing/internal/config"
	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/domain/ports/repository"
	"ftth-billing/internal/infra/logging"
	"ftth-billing/internal/infra/metrics"
)

// SuspendUseCase isolates subscribers who still owe the invoice due on
// the first of the month once the grace period has lapsed.
type SuspendUseCase interface {
	// SuspendOverdue walks overdue subscriptions in flat batches.
	SuspendOverdue(ctx context.Context, now time.Time) (domain.Tally, error)
	// SuspendOverdueByLocation processes one service area at a time,
	// busiest areas first, throttling router calls.
	SuspendOverdueByLocation(ctx context.Context, now time.Time) (domain.Tally, error)
	// TargetDueDate resolves which due date this run collects for, or
	// false when now is outside the enforcement window.
	TargetDueDate(now time.Time) (time.Time, bool)
}

var _ SuspendUseCase = (*suspendUC)(nil)

type suspendUC struct {
	cfg       config.BillingConfig
	txManager repository.TransactionManager
	subs      repository.SubscriptionRepository
	invoices  repository.InvoiceRepository
	technical repository.TechnicalRepository
	router    adapter.RouterService
	notifier  adapter.AlertNotifier
	log       zerolog.Logger
}

func NewSuspendUseCase(
	cfg config.BillingConfig,
	txManager repository.TransactionManager,
	subs repository.SubscriptionRepository,
	invoices repository.InvoiceRepository,
	technical repository.TechnicalRepository,
	router adapter.RouterService,
	notifier adapter.AlertNotifier,
	logger *zerolog.Logger,
) *suspendUC {
	return &suspendUC{
		cfg:       cfg,
		txManager: txManager,
		subs:      subs,
		invoices:  invoices,
		technical: technical,
		router:    router,
		notifier:  notifier,
		log:       logger.With().Str("component", "suspend-uc").Logger(),
	}
}

// TargetDueDate returns the first of the current month. The primary
// run happens on the configured suspend day; later days up to the
// retroactive cutoff still enforce the same due date so a missed run
// self-heals.
func (u *suspendUC) TargetDueDate(now time.Time) (time.Time, bool) {
	day := now.Day()
	if day < u.cfg.SuspendDay || day > u.cfg.RetroactiveUntilDay {
		return time.Time{}, false
	}
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
}

func (u *suspendUC) SuspendOverdue(ctx context.Context, now time.Time) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "SuspendUC.SuspendOverdue")()

	var tally domain.Tally
	due, ok := u.TargetDueDate(now)
	if !ok {
		u.log.Info().Msg("outside enforcement window, nothing to do")
		return tally, nil
	}

	for {
		// Suspended rows drop out of the overdue listing, so each pass
		// reads from offset zero.
		batch, err := u.subs.ListOverdue(ctx, repository.NoTX, due, 0, u.cfg.SuspendBatchSize)
		if err != nil && err != domain.ErrNotFound {
			return tally, err
		}
		if len(batch) == 0 {
			break
		}
		progressed := false
		for _, sub := range batch {
			outcome := u.suspendOne(ctx, sub)
			tally.Add(outcome)
			if outcome.Kind != domain.OutcomeFatal {
				progressed = true
			}
		}
		if !progressed {
			// Every record in the batch failed; bail instead of
			// rereading the same rows forever.
			break
		}
	}

	u.reportRun(ctx, "suspension", tally)
	return tally, nil
}

func (u *suspendUC) SuspendOverdueByLocation(ctx context.Context, now time.Time) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "SuspendUC.SuspendOverdueByLocation")()

	var tally domain.Tally
	due, ok := u.TargetDueDate(now)
	if !ok {
		return tally, nil
	}

	locations, err := u.subs.ListOverdueLocations(ctx, repository.NoTX, due)
	if err != nil && err != domain.ErrNotFound {
		return tally, err
	}

	loc := u.cfg.Location
	for i, lc := range locations {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		u.log.Info().Str("location", lc.Location).Int64("overdue", lc.Count).Msg("processing location")

		for {
			batch, err := u.subs.ListOverdueByLocation(ctx, repository.NoTX, due, lc.Location, 0, loc.BatchSize)
			if err != nil && err != domain.ErrNotFound {
				return tally, err
			}
			if len(batch) == 0 {
				break
			}

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(loc.MaxConcurrentRouter)
			outcomes := make([]domain.Outcome, len(batch))
			for idx, sub := range batch {
				idx, sub := idx, sub
				g.Go(func() error {
					outcomes[idx] = u.suspendOne(gctx, sub)
					return nil
				})
			}
			_ = g.Wait()

			progressed := false
			for _, o := range outcomes {
				tally.Add(o)
				if o.Kind != domain.OutcomeFatal {
					progressed = true
				}
			}
			if !progressed {
				break
			}
			if len(batch) == loc.BatchSize {
				time.Sleep(loc.BatchDelay)
			}
		}

		if i < len(locations)-1 {
			time.Sleep(loc.LocationDelay)
		}
	}

	u.reportRun(ctx, "suspension-by-location", tally)
	return tally, nil
}

// suspendOne cuts the service on the router first, then commits the
// database changes regardless of the router outcome. The database is
// authoritative: a router failure leaves the record flagged for
// re-sync instead of blocking the suspension.
func (u *suspendUC) suspendOne(ctx context.Context, sub *model.Subscription) domain.Outcome {
	ctx = logging.WithCustomerID(ctx, sub.CustomerID)

	tech, err := u.technical.FindByCustomer(ctx, repository.NoTX, sub.CustomerID)
	if err != nil {
		metrics.IncSuspension("failed")
		return domain.FatalError(fmt.Errorf("load technical record: %w", err))
	}

	routerErr := u.router.SetSubscriberState(ctx, tech, false)
	if routerErr != nil {
		logging.With(ctx, &u.log).Warn().Err(routerErr).
			Str("pppoe_id", tech.PPPoEID).
			Msg("router disable failed, flagged for re-sync")
	}

	err = u.txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.subs.UpdateStatus(ctx, tx, sub.ID, model.SubscriptionStatusSuspended); err != nil {
			return err
		}
		expired, err := u.invoices.ExpireUnpaidByCustomer(ctx, tx, sub.CustomerID)
		if err != nil {
			return err
		}
		if expired == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		metrics.IncSuspension("failed")
		return domain.FatalError(fmt.Errorf("suspend in database: %w", err))
	}

	if routerErr != nil {
		if serr := u.technical.SetSyncPending(ctx, repository.NoTX, tech.ID, true); serr != nil {
			metrics.IncSuspension("failed")
			return domain.FatalError(serr)
		}
		metrics.IncSuspension("sync_pending")
		return domain.Retryable(routerErr)
	}

	metrics.IncSuspension("suspended")
	return domain.Ok()
}

func (u *suspendUC) reportRun(ctx context.Context, job string, tally domain.Tally) {
	metrics.AddJobRecords(job, "ok", tally.OK)
	metrics.AddJobRecords(job, "skip", tally.Skipped)
	metrics.AddJobRecords(job, "retryable", tally.Retryable)
	metrics.AddJobRecords(job, "fatal", tally.Fatal)
	u.log.Info().
		Str("job", job).
		Int("ok", tally.OK).
		Int("skipped", tally.Skipped).
		Int("retryable", tally.Retryable).
		Int("fatal", tally.Fatal).
		Msg("run finished")

	if tally.Fatal > 0 {
		alert := model.NewAlert(
			"Suspension run had failures",
			fmt.Sprintf("%d customer(s) could not be suspended", tally.Fatal),
			model.SeverityWarning,
		)
		if err := u.notifier.Notify(ctx, alert); err != nil {
			u.log.Warn().Err(err).Msg("suspension alert failed")
		}
	}
}
