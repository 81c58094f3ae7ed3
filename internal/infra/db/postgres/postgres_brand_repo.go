package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
)

var _ repository.BrandRepository = (*brandRepo)(nil)

type brandRepo struct {
	pool *pgxpool.Pool
}

func NewBrandRepo(pool *pgxpool.Pool) *brandRepo {
	return &brandRepo{pool: pool}
}

func (r *brandRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.BrandProfile, error) {
	const q = `SELECT id, brand, tax_percent, created_at FROM brand_profiles WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *brandRepo) FindByBrand(ctx context.Context, tx repository.Tx, brand string) (*model.BrandProfile, error) {
	const q = `SELECT id, brand, tax_percent, created_at FROM brand_profiles WHERE brand=$1;`
	return r.queryOne(ctx, tx, q, brand)
}

func (r *brandRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.BrandProfile, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	b := &model.BrandProfile{}
	if err := row.Scan(&b.ID, &b.Brand, &b.TaxPercent, &b.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return b, nil
}
