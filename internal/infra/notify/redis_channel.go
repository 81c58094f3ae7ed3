package notify

import (
	"context"
	"encoding/json"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	red "ftth-billing/internal/infra/redis"
)

var _ adapter.AlertNotifier = (*RedisChannelNotifier)(nil)

// RedisChannelNotifier publishes alerts as JSON on a pub/sub channel so
// dashboards and other consumers can subscribe.
type RedisChannelNotifier struct {
	cache   red.RedisClient
	channel string
}

func NewRedisChannelNotifier(cache red.RedisClient, channel string) *RedisChannelNotifier {
	if channel == "" {
		channel = "billing:alerts"
	}
	return &RedisChannelNotifier{cache: cache, channel: channel}
}

func (r *RedisChannelNotifier) Notify(ctx context.Context, alert model.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return r.cache.Publish(ctx, r.channel, string(payload))
}
