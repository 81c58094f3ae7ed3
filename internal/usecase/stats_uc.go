// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
)

// BillingStats is the admin API snapshot of the subscriber base.
type BillingStats struct {
	Customers           int64 `json:"customers"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
	Suspended           int64 `json:"suspended_subscriptions"`
	UnpaidInvoices      int64 `json:"unpaid_invoices"`
	ExpiredInvoices     int64 `json:"expired_invoices"`
	PaidLast30Days      int64 `json:"paid_amount_last_30_days"`
	RouterSyncPending   int64 `json:"router_sync_pending"`
}

type StatsUseCase interface {
	Snapshot(ctx context.Context) (*BillingStats, error)
}

var _ StatsUseCase = (*statsUC)(nil)

type statsUC struct {
	customers repository.CustomerRepository
	subs      repository.SubscriptionRepository
	invoices  repository.InvoiceRepository
	technical repository.TechnicalRepository
	log       zerolog.Logger
}

func NewStatsUseCase(
	customers repository.CustomerRepository,
	subs repository.SubscriptionRepository,
	invoices repository.InvoiceRepository,
	technical repository.TechnicalRepository,
	logger *zerolog.Logger,
) *statsUC {
	return &statsUC{
		customers: customers,
		subs:      subs,
		invoices:  invoices,
		technical: technical,
		log:       logger.With().Str("component", "stats-uc").Logger(),
	}
}

func (u *statsUC) Snapshot(ctx context.Context) (*BillingStats, error) {
	out := &BillingStats{}
	var err error

	if out.Customers, err = u.customers.CountAll(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if out.ActiveSubscriptions, err = u.subs.CountByStatus(ctx, repository.NoTX, model.SubscriptionStatusActive); err != nil {
		return nil, err
	}
	if out.Suspended, err = u.subs.CountByStatus(ctx, repository.NoTX, model.SubscriptionStatusSuspended); err != nil {
		return nil, err
	}
	if out.UnpaidInvoices, err = u.invoices.CountByStatus(ctx, repository.NoTX, model.InvoiceStatusUnpaid); err != nil {
		return nil, err
	}
	if out.ExpiredInvoices, err = u.invoices.CountByStatus(ctx, repository.NoTX, model.InvoiceStatusExpired); err != nil {
		return nil, err
	}
	if out.PaidLast30Days, err = u.invoices.SumPaidSince(ctx, repository.NoTX, time.Now().AddDate(0, 0, -30)); err != nil {
		return nil, err
	}
	if out.RouterSyncPending, err = u.technical.CountSyncPending(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	return out, nil
}
