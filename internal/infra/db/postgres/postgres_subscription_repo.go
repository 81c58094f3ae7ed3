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

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, customer_id, package_id, status, due_date, payment_method, amount, created_at, updated_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, customer_id, package_id, status, due_date, payment_method, amount, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  package_id=$3, status=$4, due_date=$5, payment_method=$6, amount=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.CustomerID, s.PackageID, s.Status, s.DueDate, s.PaymentMethod, s.Amount, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			if isUniqueViolation(err) {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *subscriptionRepo) FindActiveByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE customer_id=$1 AND status='active'
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, customerID)
}

func (r *subscriptionRepo) FindLatestByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE customer_id=$1
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, customerID)
}

func (r *subscriptionRepo) ListDueOn(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE status='active' AND due_date=$1
 ORDER BY created_at ASC
 OFFSET $2 LIMIT $3;`
	return r.queryMany(ctx, tx, q, due, offset, limit)
}

func (r *subscriptionRepo) ListOverdue(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions s
 WHERE s.status='active'
   AND s.due_date=$1
   AND EXISTS (
     SELECT 1 FROM invoices i
      WHERE i.subscription_id=s.id AND i.status='unpaid'
   )
 ORDER BY s.created_at ASC
 OFFSET $2 LIMIT $3;`
	return r.queryMany(ctx, tx, q, due, offset, limit)
}

func (r *subscriptionRepo) ListOverdueByLocation(ctx context.Context, tx repository.Tx, due time.Time, location string, offset, limit int) ([]*model.Subscription, error) {
	const q = `
SELECT s.id, s.customer_id, s.package_id, s.status, s.due_date, s.payment_method, s.amount, s.created_at, s.updated_at
  FROM subscriptions s
  JOIN customers c ON c.id = s.customer_id
 WHERE s.status='active'
   AND s.due_date=$1
   AND c.address=$2
   AND EXISTS (
     SELECT 1 FROM invoices i
      WHERE i.subscription_id=s.id AND i.status='unpaid'
   )
 ORDER BY s.created_at ASC
 OFFSET $3 LIMIT $4;`
	return r.queryMany(ctx, tx, q, due, location, offset, limit)
}

func (r *subscriptionRepo) ListOverdueLocations(ctx context.Context, tx repository.Tx, due time.Time) ([]repository.LocationCount, error) {
	const q = `
SELECT c.address, COUNT(*)
  FROM subscriptions s
  JOIN customers c ON c.id = s.customer_id
 WHERE s.status='active'
   AND s.due_date=$1
   AND EXISTS (
     SELECT 1 FROM invoices i
      WHERE i.subscription_id=s.id AND i.status='unpaid'
   )
 GROUP BY c.address
 ORDER BY COUNT(*) DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, due)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []repository.LocationCount
	for rows.Next() {
		var lc repository.LocationCount
		if err := rows.Scan(&lc.Location, &lc.Count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status=$2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status)
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

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.SubscriptionStatus) (int64, error) {
	const q = `SELECT COUNT(*) FROM subscriptions WHERE status=$1;`
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

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Subscription, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}

	s := &model.Subscription{}
	var status, method string
	if err := row.Scan(&s.ID, &s.CustomerID, &s.PackageID, &status, &s.DueDate, &method, &s.Amount, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.SubscriptionStatus(status)
	s.PaymentMethod = model.PaymentMethod(method)
	return s, nil
}

func (r *subscriptionRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.Subscription, error) {
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

	var out []*model.Subscription
	for rows.Next() {
		s := &model.Subscription{}
		var status, method string
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.PackageID, &status, &s.DueDate, &method, &s.Amount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		s.Status = model.SubscriptionStatus(status)
		s.PaymentMethod = model.PaymentMethod(method)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
