package router

import (
	"context"
	"sync"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
)

var _ adapter.RouterService = (*NoopRouterService)(nil)

// NoopRouterService records subscriber state in memory, for tests and
// dev mode.
type NoopRouterService struct {
	mu     sync.Mutex
	states map[string]bool // pppoe id -> active
}

func NewNoopRouterService() *NoopRouterService {
	return &NoopRouterService{states: make(map[string]bool)}
}

func (n *NoopRouterService) Name() string { return "noop" }

func (n *NoopRouterService) SetSubscriberState(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states[rec.PPPoEID] = active
	return nil
}

// State reports the last state set for a subscriber; defaults to active.
func (n *NoopRouterService) State(pppoeID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	state, ok := n.states[pppoeID]
	if !ok {
		return true
	}
	return state
}
