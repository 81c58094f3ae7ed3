package notify

import (
	"context"

	"github.com/rs/zerolog"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
)

var _ adapter.AlertNotifier = (*MultiNotifier)(nil)

// MultiNotifier fans an alert out to every configured sink. Delivery
// failures are logged, not propagated, so one dead sink never silences
// the rest.
type MultiNotifier struct {
	sinks []adapter.AlertNotifier
	log   zerolog.Logger
}

func NewMultiNotifier(logger *zerolog.Logger, sinks ...adapter.AlertNotifier) *MultiNotifier {
	return &MultiNotifier{
		sinks: sinks,
		log:   logger.With().Str("component", "notifier").Logger(),
	}
}

func (m *MultiNotifier) Notify(ctx context.Context, alert model.Alert) error {
	for _, sink := range m.sinks {
		if err := sink.Notify(ctx, alert); err != nil {
			m.log.Warn().Err(err).Str("title", alert.Title).Msg("alert delivery failed")
		}
	}
	return nil
}
