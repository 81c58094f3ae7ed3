package repository

import (
	"context"

	"ftth-billing/internal/domain/model"
)

type CustomerRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Customer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Customer, error)
	CountAll(ctx context.Context, tx Tx) (int64, error)
}
