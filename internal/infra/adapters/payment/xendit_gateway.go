// File: internal/infra/adapters/payment/xendit_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*XenditGateway)(nil)

// XenditGateway implements adapter.PaymentGateway against the hosted
// invoice REST API. The API key goes in as HTTP basic auth username
// with an empty password.
type XenditGateway struct {
	baseURL  string
	apiKey   string
	callback string
	client   *http.Client
}

func NewXenditGateway(baseURL, apiKey, callbackURL string, timeout time.Duration) (*XenditGateway, error) {
	if apiKey == "" {
		return nil, errors.New("gateway api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.xendit.co"
	}
	if _, err := url.Parse(callbackURL); err != nil {
		return nil, fmt.Errorf("invalid callback url: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &XenditGateway{
		baseURL:  baseURL,
		apiKey:   apiKey,
		callback: callbackURL,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (g *XenditGateway) Name() string { return "xendit" }

// CreateInvoice calls POST /v2/invoices and returns the hosted payment
// link session.
func (g *XenditGateway) CreateInvoice(ctx context.Context, in adapter.InvoiceRequest) (*adapter.InvoiceSession, error) {
	callback := in.CallbackURL
	if callback == "" {
		callback = g.callback
	}
	payload := map[string]any{
		"external_id":      in.ExternalID,
		"amount":           in.Amount,
		"description":      in.Description,
		"invoice_duration": int(time.Until(in.DueDate).Seconds()),
		"currency":         "IDR",
		"customer": map[string]any{
			"given_names":   in.PayerName,
			"mobile_number": in.PayerPhone,
			"email":         in.PayerEmail,
		},
		"success_redirect_url": callback,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v2/invoices", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.apiKey, "")

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayCall("create_invoice", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: create invoice http %d: %s", domain.ErrGatewayUnavailable, resp.StatusCode, body)
	}
	var out struct {
		ID         string `json:"id"`
		ExternalID string `json:"external_id"`
		InvoiceURL string `json:"invoice_url"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.InvoiceURL == "" {
		return nil, errors.New("gateway returned empty invoice session")
	}
	return &adapter.InvoiceSession{
		ID:         out.ID,
		ExternalID: out.ExternalID,
		PaymentURL: out.InvoiceURL,
	}, nil
}

// ListPaidExternalIDs pages GET /v2/invoices?statuses=["PAID","SETTLED"]
// filtered to the lookback window.
func (g *XenditGateway) ListPaidExternalIDs(ctx context.Context, days int) ([]string, error) {
	since := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)

	var ids []string
	lastID := ""
	for {
		q := url.Values{}
		q.Set("statuses", `["PAID","SETTLED"]`)
		q.Set("created_after", since)
		q.Set("limit", "100")
		if lastID != "" {
			q.Set("after_id", lastID)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v2/invoices?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(g.apiKey, "")

		start := time.Now()
		resp, err := g.client.Do(req)
		metrics.ObserveGatewayCall("list_paid", time.Since(start).Milliseconds(), err == nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: list paid http %d", domain.ErrGatewayUnavailable, resp.StatusCode)
		}
		var page []struct {
			ID         string `json:"id"`
			ExternalID string `json:"external_id"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		for _, item := range page {
			ids = append(ids, item.ExternalID)
		}
		if len(page) < 100 {
			return ids, nil
		}
		lastID = page[len(page)-1].ID
	}
}
