// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/domain/ports/repository"
	"ftth-billing/internal/infra/logging"
	"ftth-billing/internal/infra/metrics"
)

// PaymentUseCase settles invoices. Webhooks drive the fast path;
// Reconcile sweeps the gateway's recent settlements to catch any
// webhook the service missed.
type PaymentUseCase interface {
	// ProcessSuccessfulPayment marks the invoice paid and restores the
	// subscriber. Safe to call twice for the same invoice.
	ProcessSuccessfulPayment(ctx context.Context, externalID string, paidAt time.Time) error
	// Reconcile diffs the gateway's paid list against local state.
	Reconcile(ctx context.Context, now time.Time) (domain.Tally, error)
}

var _ PaymentUseCase = (*paymentUC)(nil)

type paymentUC struct {
	lookbackDays int
	txManager    repository.TransactionManager
	subs         repository.SubscriptionRepository
	invoices     repository.InvoiceRepository
	technical    repository.TechnicalRepository
	gateway      adapter.PaymentGateway
	router       adapter.RouterService
	log          zerolog.Logger
}

func NewPaymentUseCase(
	lookbackDays int,
	txManager repository.TransactionManager,
	subs repository.SubscriptionRepository,
	invoices repository.InvoiceRepository,
	technical repository.TechnicalRepository,
	gateway adapter.PaymentGateway,
	router adapter.RouterService,
	logger *zerolog.Logger,
) *paymentUC {
	if lookbackDays <= 0 {
		lookbackDays = 3
	}
	return &paymentUC{
		lookbackDays: lookbackDays,
		txManager:    txManager,
		subs:         subs,
		invoices:     invoices,
		technical:    technical,
		gateway:      gateway,
		router:       router,
		log:          logger.With().Str("component", "payment-uc").Logger(),
	}
}

func (u *paymentUC) ProcessSuccessfulPayment(ctx context.Context, externalID string, paidAt time.Time) error {
	inv, err := u.invoices.FindByExternalID(ctx, repository.NoTX, externalID)
	if err != nil {
		return fmt.Errorf("find invoice %s: %w", externalID, err)
	}
	if inv.Status == model.InvoiceStatusPaid {
		return nil
	}
	ctx = logging.WithCustomerID(ctx, inv.CustomerID)

	var reactivated, stopped bool
	err = u.txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.invoices.MarkPaid(ctx, tx, inv.ID, paidAt); err != nil && err != domain.ErrNotFound {
			return err
		}
		sub, err := u.subs.FindByID(ctx, tx, inv.SubscriptionID)
		if err != nil {
			return err
		}
		switch sub.Status {
		case model.SubscriptionStatusSuspended:
			if err := u.subs.UpdateStatus(ctx, tx, sub.ID, model.SubscriptionStatusActive); err != nil {
				return err
			}
			reactivated = true
		case model.SubscriptionStatusStopped:
			// The invoice is settled, but a terminated subscription
			// never comes back on its own.
			stopped = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if stopped {
		logging.With(ctx, &u.log).Warn().Err(domain.ErrSubscriptionStopped).
			Str("invoice", inv.Number).
			Msg("payment settled without reactivation")
		return nil
	}

	if reactivated {
		tech, err := u.technical.FindByCustomer(ctx, repository.NoTX, inv.CustomerID)
		if err != nil {
			return err
		}
		if err := u.router.SetSubscriberState(ctx, tech, true); err != nil {
			logging.With(ctx, &u.log).Warn().Err(err).
				Str("pppoe_id", tech.PPPoEID).
				Msg("router enable failed, flagged for re-sync")
			return u.technical.SetSyncPending(ctx, repository.NoTX, tech.ID, true)
		}
	}

	logging.With(ctx, &u.log).Info().
		Str("invoice", inv.Number).
		Bool("reactivated", reactivated).
		Msg("payment settled")
	return nil
}

func (u *paymentUC) Reconcile(ctx context.Context, now time.Time) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "PaymentUC.Reconcile")()

	var tally domain.Tally
	paidIDs, err := u.gateway.ListPaidExternalIDs(ctx, u.lookbackDays)
	if err != nil {
		return tally, fmt.Errorf("list paid invoices: %w", err)
	}
	if len(paidIDs) == 0 {
		return tally, nil
	}

	missed, err := u.invoices.ListUnpaidByExternalIDs(ctx, repository.NoTX, paidIDs)
	if err != nil {
		if err == domain.ErrNotFound {
			return tally, nil
		}
		return tally, err
	}

	for _, inv := range missed {
		if err := u.ProcessSuccessfulPayment(ctx, inv.GatewayExternalID, now); err != nil {
			u.log.Error().Err(err).Str("invoice", inv.Number).Msg("reconcile settlement failed")
			tally.Add(domain.FatalError(err))
			continue
		}
		metrics.IncPayment("reconcile")
		tally.Add(domain.Ok())
	}

	metrics.AddJobRecords("reconcile", "ok", tally.OK)
	metrics.AddJobRecords("reconcile", "fatal", tally.Fatal)
	if tally.Total() > 0 {
		u.log.Info().
			Int("settled", tally.OK).
			Int("failed", tally.Fatal).
			Msg("reconciliation caught missed payments")
	}
	return tally, nil
}
