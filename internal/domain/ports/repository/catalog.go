package repository

import (
	"context"

	"ftth-billing/internal/domain/model"
)

type BrandRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.BrandProfile, error)
	FindByBrand(ctx context.Context, tx Tx, brand string) (*model.BrandProfile, error)
}

// PackageRepository is read-mostly; the Redis decorator caches single
// lookups and the full listing, invalidating on Save and Delete.
type PackageRepository interface {
	Save(ctx context.Context, tx Tx, p *model.ServicePackage) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ServicePackage, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.ServicePackage, error)
}
