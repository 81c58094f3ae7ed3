// File: internal/usecase/invoice_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"ftth-billing/internal/config"
	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/domain/ports/repository"
	"ftth-billing/internal/infra/logging"
	"ftth-billing/internal/infra/metrics"
)

// InvoiceUseCase generates the monthly invoices ahead of their due
// date and retries failed payment-link creation.
type InvoiceUseCase interface {
	// GenerateDue creates invoices for active subscriptions whose due
	// date is the configured lead time from now.
	GenerateDue(ctx context.Context, now time.Time) (domain.Tally, error)
	// RetryFailed re-attempts payment-link creation for invoices that
	// were persisted without one.
	RetryFailed(ctx context.Context, now time.Time) (domain.Tally, error)
}

var _ InvoiceUseCase = (*invoiceUC)(nil)

type invoiceUC struct {
	cfg       config.BillingConfig
	txManager repository.TransactionManager
	customers repository.CustomerRepository
	subs      repository.SubscriptionRepository
	invoices  repository.InvoiceRepository
	brands    repository.BrandRepository
	packages  repository.PackageRepository
	technical repository.TechnicalRepository
	gateway   adapter.PaymentGateway
	notifier  adapter.AlertNotifier
	log       zerolog.Logger
}

func NewInvoiceUseCase(
	cfg config.BillingConfig,
	txManager repository.TransactionManager,
	customers repository.CustomerRepository,
	subs repository.SubscriptionRepository,
	invoices repository.InvoiceRepository,
	brands repository.BrandRepository,
	packages repository.PackageRepository,
	technical repository.TechnicalRepository,
	gateway adapter.PaymentGateway,
	notifier adapter.AlertNotifier,
	logger *zerolog.Logger,
) *invoiceUC {
	return &invoiceUC{
		cfg:       cfg,
		txManager: txManager,
		customers: customers,
		subs:      subs,
		invoices:  invoices,
		brands:    brands,
		packages:  packages,
		technical: technical,
		gateway:   gateway,
		notifier:  notifier,
		log:       logger.With().Str("component", "invoice-uc").Logger(),
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (u *invoiceUC) GenerateDue(ctx context.Context, now time.Time) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "InvoiceUC.GenerateDue")()

	var tally domain.Tally
	dueDate := dateOnly(now).AddDate(0, 0, u.cfg.InvoiceLeadDays)

	// Customers already invoiced inside the due month are skipped.
	// The window check and the insert are separate statements, so two
	// overlapping runs can still double-invoice a customer.
	start, end := model.MonthWindow(dueDate)
	invoiced, err := u.invoices.ListCustomersWithInvoiceInMonth(ctx, repository.NoTX, start, end)
	if err != nil {
		return tally, err
	}

	offset := 0
	for {
		batch, err := u.subs.ListDueOn(ctx, repository.NoTX, dueDate, offset, u.cfg.BatchSize)
		if err != nil && err != domain.ErrNotFound {
			return tally, err
		}
		if len(batch) == 0 {
			break
		}
		for _, sub := range batch {
			if _, seen := invoiced[sub.CustomerID]; seen {
				tally.Add(domain.Skip("already invoiced this month"))
				continue
			}
			outcome := u.generateOne(ctx, sub, dueDate, now)
			tally.Add(outcome)
			invoiced[sub.CustomerID] = struct{}{}
			if outcome.Kind == domain.OutcomeFatal {
				u.log.Error().Err(outcome.Err).
					Str("subscription_id", sub.ID).
					Str("customer_id", sub.CustomerID).
					Msg("invoice generation failed")
			}
		}
		if len(batch) < u.cfg.BatchSize {
			break
		}
		offset += u.cfg.BatchSize
	}

	u.reportRun(ctx, "invoice-generation", tally)
	return tally, nil
}

// loadOutcome classifies a failed billing-data lookup. A missing row
// means the subscription is not billable: skip it with a warning so
// one bad record never aborts the run.
func (u *invoiceUC) loadOutcome(ctx context.Context, sub *model.Subscription, what string, err error) domain.Outcome {
	if err == domain.ErrNotFound {
		logging.With(ctx, &u.log).Warn().
			Str("subscription_id", sub.ID).
			Str("customer_id", sub.CustomerID).
			Str("missing", what).
			Msg("billing data incomplete, skipping")
		return domain.Skip(fmt.Sprintf("%s: no %s", domain.ErrIncompleteData, what))
	}
	return domain.FatalError(fmt.Errorf("load %s: %w", what, err))
}

// generateOne builds and persists a single invoice, then asks the
// gateway for a payment link. The invoice is committed before the
// gateway call so a gateway outage never loses the billing record.
func (u *invoiceUC) generateOne(ctx context.Context, sub *model.Subscription, dueDate, now time.Time) domain.Outcome {
	customer, err := u.customers.FindByID(ctx, repository.NoTX, sub.CustomerID)
	if err != nil {
		return u.loadOutcome(ctx, sub, "customer", err)
	}
	brand, err := u.brands.FindByID(ctx, repository.NoTX, customer.BrandID)
	if err != nil {
		return u.loadOutcome(ctx, sub, "brand", err)
	}
	pkg, err := u.packages.FindByID(ctx, repository.NoTX, sub.PackageID)
	if err != nil {
		return u.loadOutcome(ctx, sub, "package", err)
	}
	tech, err := u.technical.FindByCustomer(ctx, repository.NoTX, sub.CustomerID)
	if err != nil {
		return u.loadOutcome(ctx, sub, "technical record", err)
	}

	number := model.BuildInvoiceNumber(brand.Brand, customer.Name, customer.Address, tech.PPPoEID, dueDate)
	exists, err := u.invoices.ExistsByNumber(ctx, repository.NoTX, number)
	if err != nil {
		return domain.FatalError(err)
	}
	if exists {
		number = model.DisambiguateNumber(number, now)
	}

	base := sub.Amount
	if base == 0 {
		base = pkg.Price
	}
	tax := brand.TaxOn(base)

	inv, err := model.NewInvoice(uuid.NewString(), number, customer.ID, sub.ID, brand.Brand, base, tax, dueDate)
	if err != nil {
		return domain.FatalError(err)
	}
	inv.Phone = customer.GatewayPhone()
	inv.Email = customer.Email

	err = u.txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return u.invoices.Save(ctx, tx, inv)
	})
	if err != nil {
		return domain.FatalError(fmt.Errorf("persist invoice: %w", err))
	}

	session, err := u.gateway.CreateInvoice(ctx, adapter.InvoiceRequest{
		ExternalID:  inv.ID,
		Amount:      inv.AmountTotal,
		Description: model.GatewayDescription(sub, pkg, brand, inv),
		PayerName:   customer.Name,
		PayerPhone:  inv.Phone,
		PayerEmail:  inv.Email,
		DueDate:     dueDate,
	})
	if err != nil {
		// Invoice stays unpaid without a link; the retry job picks it up.
		if uerr := u.invoices.SetGatewayResult(ctx, repository.NoTX, inv.ID, model.GatewayCallFailed, "", "", "", err.Error()); uerr != nil {
			u.log.Error().Err(uerr).Str("invoice_id", inv.ID).Msg("record gateway failure")
		}
		metrics.IncInvoiceGenerated("failed")
		return domain.Retryable(err)
	}

	if err := u.invoices.SetGatewayResult(ctx, repository.NoTX, inv.ID, model.GatewayCallOK, session.ID, session.ExternalID, session.PaymentURL, ""); err != nil {
		return domain.FatalError(err)
	}
	metrics.IncInvoiceGenerated("ok")
	return domain.Ok()
}

func (u *invoiceUC) RetryFailed(ctx context.Context, now time.Time) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "InvoiceUC.RetryFailed")()

	var tally domain.Tally
	pending, err := u.invoices.ListFailedForRetry(ctx, repository.NoTX, u.cfg.MaxInvoiceRetries, u.cfg.RetryInterval, u.cfg.BatchSize)
	if err != nil {
		if err == domain.ErrNotFound {
			return tally, nil
		}
		return tally, err
	}

	var exhausted []string
	for _, inv := range pending {
		if err := u.invoices.MarkRetrying(ctx, repository.NoTX, inv.ID, now); err != nil {
			tally.Add(domain.FatalError(err))
			continue
		}
		inv.RetryCount++

		customer, err := u.customers.FindByID(ctx, repository.NoTX, inv.CustomerID)
		if err != nil {
			tally.Add(domain.FatalError(err))
			continue
		}
		sub, err := u.subs.FindByID(ctx, repository.NoTX, inv.SubscriptionID)
		if err != nil {
			tally.Add(domain.FatalError(err))
			continue
		}
		brand, err := u.brands.FindByBrand(ctx, repository.NoTX, inv.Brand)
		if err != nil {
			tally.Add(domain.FatalError(err))
			continue
		}
		pkg, err := u.packages.FindByID(ctx, repository.NoTX, sub.PackageID)
		if err != nil {
			tally.Add(domain.FatalError(err))
			continue
		}

		session, err := u.gateway.CreateInvoice(ctx, adapter.InvoiceRequest{
			ExternalID:  inv.ID,
			Amount:      inv.AmountTotal,
			Description: model.GatewayDescription(sub, pkg, brand, inv),
			PayerName:   customer.Name,
			PayerPhone:  inv.Phone,
			PayerEmail:  inv.Email,
			DueDate:     inv.DueDate,
		})
		if err != nil {
			if uerr := u.invoices.RecordRetryFailure(ctx, repository.NoTX, inv.ID, err.Error()); uerr != nil {
				u.log.Error().Err(uerr).Str("invoice_id", inv.ID).Msg("record retry failure")
			}
			if inv.RetryCount >= u.cfg.MaxInvoiceRetries {
				exhausted = append(exhausted, inv.Number)
				metrics.IncInvoiceRetry("exhausted")
				tally.Add(domain.FatalError(fmt.Errorf("%w: %v", domain.ErrRetriesExhausted, err)))
			} else {
				metrics.IncInvoiceRetry("failed")
				tally.Add(domain.Retryable(err))
			}
			continue
		}

		if err := u.invoices.SetGatewayResult(ctx, repository.NoTX, inv.ID, model.GatewayCallOK, session.ID, session.ExternalID, session.PaymentURL, ""); err != nil {
			tally.Add(domain.FatalError(err))
			continue
		}
		metrics.IncInvoiceRetry("recovered")
		tally.Add(domain.Ok())
	}

	// One alert per run covering every invoice that hit the cap.
	if len(exhausted) > 0 {
		alert := model.NewAlert(
			"Invoice payment links exhausted retries",
			fmt.Sprintf("%d invoice(s) have no payment link after %d attempts", len(exhausted), u.cfg.MaxInvoiceRetries),
			model.SeverityCritical,
		)
		alert.Payload = map[string]string{"invoices": fmt.Sprintf("%v", exhausted)}
		if err := u.notifier.Notify(ctx, alert); err != nil {
			u.log.Warn().Err(err).Msg("exhausted-retries alert failed")
		}
	}

	u.reportRun(ctx, "invoice-retry", tally)
	return tally, nil
}

func (u *invoiceUC) reportRun(ctx context.Context, job string, tally domain.Tally) {
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
}
