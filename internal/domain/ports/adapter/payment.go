package adapter

import (
	"context"
	"time"
)

// InvoiceRequest carries what the gateway needs to mint a hosted
// payment link.
type InvoiceRequest struct {
	ExternalID  string
	Amount      int64
	Description string
	PayerName   string
	PayerPhone  string
	PayerEmail  string
	DueDate     time.Time
	CallbackURL string
}

// InvoiceSession is the gateway's handle for a created invoice.
type InvoiceSession struct {
	ID         string
	ExternalID string
	PaymentURL string
}

type PaymentGateway interface {
	Name() string
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*InvoiceSession, error)
	// ListPaidExternalIDs returns the external ids of invoices the
	// gateway settled within the last `days` days.
	ListPaidExternalIDs(ctx context.Context, days int) ([]string, error)
}
