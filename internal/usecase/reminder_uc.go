// File: internal/usecase/reminder_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ftth-billing/internal/config"
	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/domain/ports/repository"
	"ftth-billing/internal/infra/logging"
)

// ReminderUseCase nudges customers whose invoice comes due soon. The
// notifier publishes the reminder; downstream messaging delivers it.
type ReminderUseCase interface {
	RemindUpcoming(ctx context.Context, now time.Time) (domain.Tally, error)
}

var _ ReminderUseCase = (*reminderUC)(nil)

type reminderUC struct {
	cfg       config.BillingConfig
	customers repository.CustomerRepository
	invoices  repository.InvoiceRepository
	notifier  adapter.AlertNotifier
	log       zerolog.Logger
}

func NewReminderUseCase(
	cfg config.BillingConfig,
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	notifier adapter.AlertNotifier,
	logger *zerolog.Logger,
) *reminderUC {
	return &reminderUC{
		cfg:       cfg,
		customers: customers,
		invoices:  invoices,
		notifier:  notifier,
		log:       logger.With().Str("component", "reminder-uc").Logger(),
	}
}

func (u *reminderUC) RemindUpcoming(ctx context.Context, now time.Time) (domain.Tally, error) {
	defer logging.TraceDuration(&u.log, "ReminderUC.RemindUpcoming")()

	var tally domain.Tally
	due := dateOnly(now).AddDate(0, 0, u.cfg.ReminderLeadDays)

	offset := 0
	for {
		batch, err := u.invoices.ListUnpaidDueOn(ctx, repository.NoTX, due, offset, u.cfg.BatchSize)
		if err != nil && err != domain.ErrNotFound {
			return tally, err
		}
		if len(batch) == 0 {
			break
		}
		for _, inv := range batch {
			if !inv.HasPaymentLink() {
				// Nothing to point the customer at yet; the retry job
				// will produce the link first.
				tally.Add(domain.Skip("no payment link"))
				continue
			}
			customer, err := u.customers.FindByID(ctx, repository.NoTX, inv.CustomerID)
			if err != nil {
				tally.Add(domain.FatalError(err))
				continue
			}
			alert := model.NewAlert(
				"payment-reminder",
				fmt.Sprintf("Invoice %s for %s is due %s", inv.Number, customer.Name, inv.DueDate.Format("02/01/2006")),
				model.SeverityInfo,
			)
			alert.Payload = map[string]string{
				"customer_id": customer.ID,
				"phone":       customer.GatewayPhone(),
				"invoice":     inv.Number,
				"amount":      fmt.Sprintf("%d", inv.AmountTotal),
				"payment_url": inv.PaymentURL,
				"due_date":    inv.DueDate.Format("2006-01-02"),
			}
			if err := u.notifier.Notify(ctx, alert); err != nil {
				tally.Add(domain.Retryable(err))
				continue
			}
			tally.Add(domain.Ok())
		}
		if len(batch) < u.cfg.BatchSize {
			break
		}
		offset += u.cfg.BatchSize
	}

	u.log.Info().
		Int("sent", tally.OK).
		Int("skipped", tally.Skipped).
		Int("failed", tally.Retryable+tally.Fatal).
		Msg("reminders dispatched")
	return tally, nil
}
