package repository

import (
	"context"
	"time"

	"ftth-billing/internal/domain/model"
)

// LocationCount pairs a service address area with its overdue-customer
// count, used to order location-batched suspension.
type LocationCount struct {
	Location string
	Count    int64
}

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	FindActiveByCustomer(ctx context.Context, tx Tx, customerID string) (*model.Subscription, error)

	// FindLatestByCustomer returns the newest subscription regardless
	// of status; router re-sync uses it to decide the desired state.
	FindLatestByCustomer(ctx context.Context, tx Tx, customerID string) (*model.Subscription, error)

	// ListDueOn returns active subscriptions whose due date falls on
	// the given day, paged for batch generation.
	ListDueOn(ctx context.Context, tx Tx, due time.Time, offset, limit int) ([]*model.Subscription, error)

	// ListOverdue returns active subscriptions due on the given day
	// that still have an unpaid invoice.
	ListOverdue(ctx context.Context, tx Tx, due time.Time, offset, limit int) ([]*model.Subscription, error)
	ListOverdueByLocation(ctx context.Context, tx Tx, due time.Time, location string, offset, limit int) ([]*model.Subscription, error)
	ListOverdueLocations(ctx context.Context, tx Tx, due time.Time) ([]LocationCount, error)

	UpdateStatus(ctx context.Context, tx Tx, id string, status model.SubscriptionStatus) error
	CountByStatus(ctx context.Context, tx Tx, status model.SubscriptionStatus) (int64, error)
}
