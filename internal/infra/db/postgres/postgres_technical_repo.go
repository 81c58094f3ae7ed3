package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
)

var _ repository.TechnicalRepository = (*technicalRepo)(nil)

type technicalRepo struct {
	pool *pgxpool.Pool
}

func NewTechnicalRepo(pool *pgxpool.Pool) *technicalRepo {
	return &technicalRepo{pool: pool}
}

// Router host and port are joined in so adapter calls need no second
// lookup.
const technicalSelect = `
SELECT t.id, t.customer_id, t.pppoe_id, t.pppoe_profile, t.router_id,
       r.name, r.host, r.api_port, t.sync_pending, t.updated_at
  FROM technical_records t
  JOIN routers r ON r.id = t.router_id`

func (r *technicalRepo) FindByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.TechnicalRecord, error) {
	const q = technicalSelect + `
 WHERE t.customer_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, customerID)
	if err != nil {
		return nil, err
	}
	rec := &model.TechnicalRecord{}
	if err := row.Scan(&rec.ID, &rec.CustomerID, &rec.PPPoEID, &rec.PPPoEProfile, &rec.RouterID,
		&rec.RouterName, &rec.RouterHost, &rec.RouterAPIPort, &rec.SyncPending, &rec.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rec, nil
}

func (r *technicalRepo) SetSyncPending(ctx context.Context, tx repository.Tx, id string, pending bool) error {
	const q = `UPDATE technical_records SET sync_pending=$2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, pending)
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

func (r *technicalRepo) CountSyncPending(ctx context.Context, tx repository.Tx) (int64, error) {
	const q = `SELECT COUNT(*) FROM technical_records WHERE sync_pending;`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *technicalRepo) ListSyncPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.TechnicalRecord, error) {
	const q = technicalSelect + `
 WHERE t.sync_pending
 ORDER BY t.updated_at ASC
 LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.TechnicalRecord
	for rows.Next() {
		rec := &model.TechnicalRecord{}
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.PPPoEID, &rec.PPPoEProfile, &rec.RouterID,
			&rec.RouterName, &rec.RouterHost, &rec.RouterAPIPort, &rec.SyncPending, &rec.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
