package repository

import (
	"context"
	"time"

	"ftth-billing/internal/domain/model"
)

type InvoiceRepository interface {
	Save(ctx context.Context, tx Tx, inv *model.Invoice) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Invoice, error)
	FindByExternalID(ctx context.Context, tx Tx, externalID string) (*model.Invoice, error)
	ExistsByNumber(ctx context.Context, tx Tx, number string) (bool, error)

	// ListCustomersWithInvoiceInMonth returns the ids of customers who
	// already hold an invoice due inside [start, end], for the
	// duplicate pre-check before a generation batch.
	ListCustomersWithInvoiceInMonth(ctx context.Context, tx Tx, start, end time.Time) (map[string]struct{}, error)

	// ListUnpaidByExternalIDs filters the given gateway external ids
	// down to those whose local invoice is not yet paid.
	ListUnpaidByExternalIDs(ctx context.Context, tx Tx, externalIDs []string) ([]*model.Invoice, error)

	// ListUnpaidDueOn returns unpaid invoices due on the given day,
	// paged for the reminder job.
	ListUnpaidDueOn(ctx context.Context, tx Tx, due time.Time, offset, limit int) ([]*model.Invoice, error)

	// ListFailedForRetry returns unpaid invoices with no payment link,
	// fewer than maxRetries attempts, and a last attempt older than
	// minInterval (or never attempted).
	ListFailedForRetry(ctx context.Context, tx Tx, maxRetries int, minInterval time.Duration, limit int) ([]*model.Invoice, error)

	SetGatewayResult(ctx context.Context, tx Tx, id string, status model.GatewayCallStatus, gatewayID, externalID, paymentURL, gatewayErr string) error
	MarkRetrying(ctx context.Context, tx Tx, id string, at time.Time) error
	RecordRetryFailure(ctx context.Context, tx Tx, id string, gatewayErr string) error
	MarkPaid(ctx context.Context, tx Tx, id string, paidAt time.Time) error

	// ExpireUnpaidByCustomer expires every unpaid invoice of the
	// customer and returns how many rows changed.
	ExpireUnpaidByCustomer(ctx context.Context, tx Tx, customerID string) (int64, error)

	CountByStatus(ctx context.Context, tx Tx, status model.InvoiceStatus) (int64, error)
	SumPaidSince(ctx context.Context, tx Tx, since time.Time) (int64, error)
}
