package adapter

import (
	"context"

	"ftth-billing/internal/domain/model"
)

// AlertNotifier delivers operator alerts. Callers treat delivery as
// best-effort and log failures instead of propagating them.
type AlertNotifier interface {
	Notify(ctx context.Context, alert model.Alert) error
}
