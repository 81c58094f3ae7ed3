package adapter

import (
	"context"

	"ftth-billing/internal/domain/model"
)

// RouterService alters a subscriber's connectivity on the access
// router identified by the technical record.
type RouterService interface {
	Name() string
	// SetSubscriberState enables (active=true) or disables the PPPoE
	// secret and drops any live session when disabling.
	SetSubscriberState(ctx context.Context, rec *model.TechnicalRecord, active bool) error
}
