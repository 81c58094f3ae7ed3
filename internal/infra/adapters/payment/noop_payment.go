package payment

import (
	"context"
	"fmt"
	"sync"

	"ftth-billing/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway to use in tests and
// dev mode.
type NoopPaymentGateway struct {
	mu   sync.Mutex
	seq  int64
	paid []string
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.InvoiceSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("noop-%d", g.seq)
	return &adapter.InvoiceSession{
		ID:         id,
		ExternalID: req.ExternalID,
		PaymentURL: "https://example.test/pay/" + id,
	}, nil
}

func (g *NoopPaymentGateway) ListPaidExternalIDs(ctx context.Context, days int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.paid))
	copy(out, g.paid)
	return out, nil
}

// MarkPaid records an external id as settled for subsequent listings.
func (g *NoopPaymentGateway) MarkPaid(externalID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paid = append(g.paid, externalID)
}
