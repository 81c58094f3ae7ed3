// File: internal/usecase/routersync_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/domain/ports/repository"
	"ftth-billing/internal/infra/logging"
	"ftth-billing/internal/infra/metrics"
)

// RouterSyncUseCase drains technical records whose router state lagged
// behind the database after a failed call.
type RouterSyncUseCase interface {
	SyncPending(ctx context.Context) (domain.Tally, error)
}

var _ RouterSyncUseCase = (*routerSyncUC)(nil)

type routerSyncUC struct {
	batchSize int
	subs      repository.SubscriptionRepository
	technical repository.TechnicalRepository
	router    adapter.RouterService
	log       zerolog.Logger
}

func NewRouterSyncUseCase(
	batchSize int,
	subs repository.SubscriptionRepository,
	technical repository.TechnicalRepository,
	router adapter.RouterService,
	logger *zerolog.Logger,
) *routerSyncUC {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &routerSyncUC{
		batchSize: batchSize,
		subs:      subs,
		technical: technical,
		router:    router,
		log:       logger.With().Str("component", "router-sync-uc").Logger(),
	}
}

// SyncPending replays the desired state onto the router, one record at
// a time so a single unreachable device cannot stall the rest.
func (u *routerSyncUC) SyncPending(ctx context.Context) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "RouterSyncUC.SyncPending")()

	var tally domain.Tally
	pending, err := u.technical.ListSyncPending(ctx, repository.NoTX, u.batchSize)
	if err != nil {
		if err == domain.ErrNotFound {
			return tally, nil
		}
		return tally, err
	}

	for _, tech := range pending {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		tally.Add(u.syncOne(ctx, tech))
	}

	if n, err := u.technical.CountSyncPending(ctx, repository.NoTX); err == nil {
		metrics.SetRouterSyncPending(int(n))
	}

	if tally.Total() > 0 {
		u.log.Info().
			Int("ok", tally.OK).
			Int("retryable", tally.Retryable).
			Int("fatal", tally.Fatal).
			Msg("router re-sync finished")
	}
	return tally, nil
}

func (u *routerSyncUC) syncOne(ctx context.Context, tech *model.TechnicalRecord) domain.Outcome {
	sub, err := u.subs.FindLatestByCustomer(ctx, repository.NoTX, tech.CustomerID)
	if err != nil {
		return domain.FatalError(fmt.Errorf("load subscription for %s: %w", tech.CustomerID, err))
	}
	desired := sub.Status == model.SubscriptionStatusActive

	if err := u.router.SetSubscriberState(ctx, tech, desired); err != nil {
		u.log.Warn().Err(err).
			Str("pppoe_id", tech.PPPoEID).
			Str("router", tech.RouterName).
			Msg("router still unreachable")
		return domain.Retryable(err)
	}
	if err := u.technical.SetSyncPending(ctx, repository.NoTX, tech.ID, false); err != nil {
		return domain.FatalError(err)
	}
	return domain.Ok()
}
