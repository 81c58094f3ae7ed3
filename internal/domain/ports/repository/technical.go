package repository

import (
	"context"

	"ftth-billing/internal/domain/model"
)

type TechnicalRepository interface {
	FindByCustomer(ctx context.Context, tx Tx, customerID string) (*model.TechnicalRecord, error)
	SetSyncPending(ctx context.Context, tx Tx, id string, pending bool) error
	ListSyncPending(ctx context.Context, tx Tx, limit int) ([]*model.TechnicalRecord, error)
	CountSyncPending(ctx context.Context, tx Tx) (int64, error)
}
