// File: internal/infra/adapters/router/mikrotik_client.go
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ftth-billing/internal/domain"
	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/infra/metrics"
)

var _ adapter.RouterService = (*MikrotikClient)(nil)

// MikrotikClient drives RouterOS devices over the REST management API
// (available on RouterOS v7). Disabling a subscriber flips the PPPoE
// secret to disabled and kills the active session so the change takes
// effect immediately.
type MikrotikClient struct {
	scheme   string
	username string
	password string
	client   *http.Client
}

func NewMikrotikClient(username, password string, timeout time.Duration) (*MikrotikClient, error) {
	if username == "" {
		return nil, errors.New("router username empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MikrotikClient{
		scheme:   "https",
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (m *MikrotikClient) Name() string { return "mikrotik" }

func (m *MikrotikClient) baseURL(rec *model.TechnicalRecord) string {
	return fmt.Sprintf("%s://%s:%d/rest", m.scheme, rec.RouterHost, rec.RouterAPIPort)
}

// SetSubscriberState toggles the PPPoE secret and, when disabling,
// drops any live session for the subscriber.
func (m *MikrotikClient) SetSubscriberState(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
	start := time.Now()
	err := m.setSecretDisabled(ctx, rec, !active)
	if err == nil && !active {
		// Session removal is best-effort: a missing session is fine.
		_ = m.dropActiveSession(ctx, rec)
	}
	op := "enable"
	if !active {
		op = "disable"
	}
	metrics.ObserveRouterCall(op, time.Since(start).Milliseconds(), err == nil)
	return err
}

func (m *MikrotikClient) setSecretDisabled(ctx context.Context, rec *model.TechnicalRecord, disabled bool) error {
	secretID, err := m.findSecretID(ctx, rec)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(`{"disabled":"%t"}`, disabled)
	url := fmt.Sprintf("%s/ppp/secret/%s", m.baseURL(rec), secretID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(m.username, m.password)
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRouterUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: patch secret http %d", domain.ErrRouterUnavailable, resp.StatusCode)
	}
	return nil
}

func (m *MikrotikClient) findSecretID(ctx context.Context, rec *model.TechnicalRecord) (string, error) {
	url := fmt.Sprintf("%s/ppp/secret?name=%s", m.baseURL(rec), rec.PPPoEID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(m.username, m.password)
	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRouterUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: get secret http %d", domain.ErrRouterUnavailable, resp.StatusCode)
	}
	var secrets []struct {
		ID string `json:".id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&secrets); err != nil {
		return "", err
	}
	if len(secrets) == 0 {
		return "", domain.ErrNotFound
	}
	return secrets[0].ID, nil
}

func (m *MikrotikClient) dropActiveSession(ctx context.Context, rec *model.TechnicalRecord) error {
	url := fmt.Sprintf("%s/ppp/active?name=%s", m.baseURL(rec), rec.PPPoEID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(m.username, m.password)
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var sessions []struct {
		ID string `json:".id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return err
	}
	for _, s := range sessions {
		delURL := fmt.Sprintf("%s/ppp/active/%s", m.baseURL(rec), s.ID)
		delReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, delURL, nil)
		if err != nil {
			return err
		}
		delReq.SetBasicAuth(m.username, m.password)
		delResp, err := m.client.Do(delReq)
		if err != nil {
			return err
		}
		delResp.Body.Close()
	}
	return nil
}
