package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
)

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

type invoiceRepo struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepo(pool *pgxpool.Pool) *invoiceRepo {
	return &invoiceRepo{pool: pool}
}

const invoiceColumns = `id, number, customer_id, subscription_id, brand, status,
  amount_base, amount_tax, amount_total, issued_at, due_date, paid_at, phone, email,
  gateway_id, gateway_external_id, payment_url, gateway_status, gateway_error,
  retry_count, last_retry_at, created_at`

func (r *invoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	const q = `
INSERT INTO invoices (
  id, number, customer_id, subscription_id, brand, status,
  amount_base, amount_tax, amount_total, issued_at, due_date, paid_at, phone, email,
  gateway_id, gateway_external_id, payment_url, gateway_status, gateway_error,
  retry_count, last_retry_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
ON CONFLICT (id) DO UPDATE SET
  status=$6, paid_at=$12,
  gateway_id=$15, gateway_external_id=$16, payment_url=$17,
  gateway_status=$18, gateway_error=$19, retry_count=$20, last_retry_at=$21;`

	_, err := execSQL(ctx, r.pool, tx, q,
		inv.ID, inv.Number, inv.CustomerID, inv.SubscriptionID, inv.Brand, inv.Status,
		inv.AmountBase, inv.AmountTax, inv.AmountTotal, inv.IssuedAt, inv.DueDate, inv.PaidAt, inv.Phone, inv.Email,
		inv.GatewayID, inv.GatewayExternalID, inv.PaymentURL, inv.GatewayStatus, inv.GatewayError,
		inv.RetryCount, inv.LastRetryAt, inv.CreatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			if isUniqueViolation(err) {
				return domain.ErrDuplicateInvoice
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *invoiceRepo) FindByExternalID(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE gateway_external_id=$1;`
	return r.queryOne(ctx, tx, q, externalID)
}

func (r *invoiceRepo) ExistsByNumber(ctx context.Context, tx repository.Tx, number string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM invoices WHERE number=$1);`
	row, err := pickRow(ctx, r.pool, tx, q, number)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *invoiceRepo) ListCustomersWithInvoiceInMonth(ctx context.Context, tx repository.Tx, start, end time.Time) (map[string]struct{}, error) {
	const q = `
SELECT DISTINCT customer_id
  FROM invoices
 WHERE due_date >= $1 AND due_date <= $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, start, end)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *invoiceRepo) ListUnpaidByExternalIDs(ctx context.Context, tx repository.Tx, externalIDs []string) ([]*model.Invoice, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT ` + invoiceColumns + `
  FROM invoices
 WHERE gateway_external_id = ANY($1) AND status <> 'paid';`
	return r.queryMany(ctx, tx, q, externalIDs)
}

func (r *invoiceRepo) ListUnpaidDueOn(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Invoice, error) {
	const q = `
SELECT ` + invoiceColumns + `
  FROM invoices
 WHERE status='unpaid' AND due_date=$1
 ORDER BY created_at ASC
 OFFSET $2 LIMIT $3;`
	return r.queryMany(ctx, tx, q, due, offset, limit)
}

func (r *invoiceRepo) ListFailedForRetry(ctx context.Context, tx repository.Tx, maxRetries int, minInterval time.Duration, limit int) ([]*model.Invoice, error) {
	const q = `
SELECT ` + invoiceColumns + `
  FROM invoices
 WHERE status='unpaid'
   AND gateway_id=''
   AND gateway_status <> 'processing'
   AND retry_count < $1
   AND (last_retry_at IS NULL OR last_retry_at <= NOW() - ($2::int * INTERVAL '1 second'))
 ORDER BY issued_at ASC
 LIMIT $3;`
	return r.queryMany(ctx, tx, q, maxRetries, int(minInterval.Seconds()), limit)
}

func (r *invoiceRepo) SetGatewayResult(ctx context.Context, tx repository.Tx, id string, status model.GatewayCallStatus, gatewayID, externalID, paymentURL, gatewayErr string) error {
	const q = `
UPDATE invoices
   SET gateway_status=$2, gateway_id=$3, gateway_external_id=$4, payment_url=$5, gateway_error=$6
 WHERE id=$1;`
	return r.execOne(ctx, tx, q, id, status, gatewayID, externalID, paymentURL, gatewayErr)
}

func (r *invoiceRepo) MarkRetrying(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
	const q = `
UPDATE invoices
   SET gateway_status='processing', retry_count=retry_count+1, last_retry_at=$2
 WHERE id=$1;`
	return r.execOne(ctx, tx, q, id, at)
}

func (r *invoiceRepo) RecordRetryFailure(ctx context.Context, tx repository.Tx, id string, gatewayErr string) error {
	const q = `
UPDATE invoices
   SET gateway_status='failed', gateway_error=$2
 WHERE id=$1;`
	return r.execOne(ctx, tx, q, id, gatewayErr)
}

func (r *invoiceRepo) MarkPaid(ctx context.Context, tx repository.Tx, id string, paidAt time.Time) error {
	const q = `UPDATE invoices SET status='paid', paid_at=$2 WHERE id=$1 AND status <> 'paid';`
	return r.execOne(ctx, tx, q, id, paidAt)
}

func (r *invoiceRepo) ExpireUnpaidByCustomer(ctx context.Context, tx repository.Tx, customerID string) (int64, error) {
	const q = `UPDATE invoices SET status='expired' WHERE customer_id=$1 AND status='unpaid';`
	tag, err := execSQL(ctx, r.pool, tx, q, customerID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return 0, err
		default:
			return 0, domain.ErrOperationFailed
		}
	}
	return tag.RowsAffected(), nil
}

func (r *invoiceRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.InvoiceStatus) (int64, error) {
	const q = `SELECT COUNT(*) FROM invoices WHERE status=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, status)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *invoiceRepo) SumPaidSince(ctx context.Context, tx repository.Tx, since time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount_total),0) FROM invoices WHERE status='paid' AND paid_at >= $1;`
	row, err := pickRow(ctx, r.pool, tx, q, since)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *invoiceRepo) execOne(ctx context.Context, tx repository.Tx, sql string, args ...any) error {
	tag, err := execSQL(ctx, r.pool, tx, sql, args...)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Invoice, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	inv, err := scanInvoice(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.Invoice, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		switch err {
		case pgx.ErrNoRows:
			return nil, domain.ErrNotFound
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	inv := &model.Invoice{}
	var status, gwStatus string
	if err := row.Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.SubscriptionID, &inv.Brand, &status,
		&inv.AmountBase, &inv.AmountTax, &inv.AmountTotal, &inv.IssuedAt, &inv.DueDate, &inv.PaidAt, &inv.Phone, &inv.Email,
		&inv.GatewayID, &inv.GatewayExternalID, &inv.PaymentURL, &gwStatus, &inv.GatewayError,
		&inv.RetryCount, &inv.LastRetryAt, &inv.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, pgx.ErrNoRows
		}
		return nil, domain.ErrReadDatabaseRow
	}
	inv.Status = model.InvoiceStatus(status)
	inv.GatewayStatus = model.GatewayCallStatus(gwStatus)
	return inv, nil
}
