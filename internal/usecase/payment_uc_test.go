// File: internal/usecase/payment_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
)

func paidInvoiceFixture(status model.InvoiceStatus) *model.Invoice {
	return &model.Invoice{
		ID: "inv-1", Number: "N/1", CustomerID: "cust-1", SubscriptionID: "sub-1",
		Status: status, AmountTotal: 111000,
		GatewayID: "gw-1", GatewayExternalID: "inv-1",
		DueDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPaymentUC_ProcessSuccessfulPayment(t *testing.T) {
	paidAt := time.Date(2025, 12, 3, 9, 0, 0, 0, time.UTC)

	t.Run("marks paid and reactivates suspended subscriber", func(t *testing.T) {
		// Arrange
		var markedPaid, reactivated, routerEnabled bool
		invoices := &mockInvoiceRepo{
			FindByExternalIDFn: func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
				return paidInvoiceFixture(model.InvoiceStatusExpired), nil
			},
			MarkPaidFn: func(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
				markedPaid = true
				return nil
			},
		}
		subs := &mockSubscriptionRepo{
			FindByIDFn: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				s := overdueSub("sub-1", "cust-1")
				s.Status = model.SubscriptionStatusSuspended
				return s, nil
			},
			UpdateStatusFn: func(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
				reactivated = status == model.SubscriptionStatusActive
				return nil
			},
		}
		technical := &mockTechnicalRepo{
			FindByCustomerFn: func(ctx context.Context, tx repository.Tx, customerID string) (*model.TechnicalRecord, error) {
				return techFor(customerID), nil
			},
		}
		router := &mockRouter{
			SetSubscriberStateFn: func(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
				routerEnabled = active
				return nil
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, subs, invoices, technical, &mockGateway{}, router, testLogger())

		// Act
		err := uc.ProcessSuccessfulPayment(context.Background(), "inv-1", paidAt)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !markedPaid {
			t.Error("invoice was not marked paid")
		}
		if !reactivated {
			t.Error("subscription was not reactivated")
		}
		if !routerEnabled {
			t.Error("router was not told to enable the subscriber")
		}
	})

	t.Run("already-paid invoice is a no-op", func(t *testing.T) {
		invoices := &mockInvoiceRepo{
			FindByExternalIDFn: func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
				return paidInvoiceFixture(model.InvoiceStatusPaid), nil
			},
			MarkPaidFn: func(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
				t.Fatal("must not touch an already paid invoice")
				return nil
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, &mockSubscriptionRepo{}, invoices, &mockTechnicalRepo{}, &mockGateway{}, &mockRouter{}, testLogger())

		if err := uc.ProcessSuccessfulPayment(context.Background(), "inv-1", paidAt); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("active subscriber skips the router", func(t *testing.T) {
		invoices := &mockInvoiceRepo{
			FindByExternalIDFn: func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
				return paidInvoiceFixture(model.InvoiceStatusUnpaid), nil
			},
			MarkPaidFn: func(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
				return nil
			},
		}
		subs := &mockSubscriptionRepo{
			FindByIDFn: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				return overdueSub("sub-1", "cust-1"), nil
			},
		}
		router := &mockRouter{
			SetSubscriberStateFn: func(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
				t.Fatal("active subscriber needs no router call")
				return nil
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, subs, invoices, &mockTechnicalRepo{}, &mockGateway{}, router, testLogger())

		if err := uc.ProcessSuccessfulPayment(context.Background(), "inv-1", paidAt); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("stopped subscriber settles without reactivation", func(t *testing.T) {
		markedPaid := false
		invoices := &mockInvoiceRepo{
			FindByExternalIDFn: func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
				return paidInvoiceFixture(model.InvoiceStatusExpired), nil
			},
			MarkPaidFn: func(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
				markedPaid = true
				return nil
			},
		}
		subs := &mockSubscriptionRepo{
			FindByIDFn: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				s := overdueSub("sub-1", "cust-1")
				s.Status = model.SubscriptionStatusStopped
				return s, nil
			},
			UpdateStatusFn: func(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
				t.Fatal("a stopped subscription must not change status")
				return nil
			},
		}
		router := &mockRouter{
			SetSubscriberStateFn: func(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
				t.Fatal("a stopped subscription must not reach the router")
				return nil
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, subs, invoices, &mockTechnicalRepo{}, &mockGateway{}, router, testLogger())

		if err := uc.ProcessSuccessfulPayment(context.Background(), "inv-1", paidAt); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !markedPaid {
			t.Error("invoice was not marked paid")
		}
	})

	t.Run("router failure flags re-sync but keeps payment", func(t *testing.T) {
		flagged := false
		invoices := &mockInvoiceRepo{
			FindByExternalIDFn: func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
				return paidInvoiceFixture(model.InvoiceStatusExpired), nil
			},
			MarkPaidFn: func(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
				return nil
			},
		}
		subs := &mockSubscriptionRepo{
			FindByIDFn: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				s := overdueSub("sub-1", "cust-1")
				s.Status = model.SubscriptionStatusSuspended
				return s, nil
			},
			UpdateStatusFn: func(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
				return nil
			},
		}
		technical := &mockTechnicalRepo{
			FindByCustomerFn: func(ctx context.Context, tx repository.Tx, customerID string) (*model.TechnicalRecord, error) {
				return techFor(customerID), nil
			},
			SetSyncPendingFn: func(ctx context.Context, tx repository.Tx, id string, pending bool) error {
				flagged = pending
				return nil
			},
		}
		router := &mockRouter{
			SetSubscriberStateFn: func(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
				return errors.New("router unreachable")
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, subs, invoices, technical, &mockGateway{}, router, testLogger())

		if err := uc.ProcessSuccessfulPayment(context.Background(), "inv-1", paidAt); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !flagged {
			t.Error("technical record was not flagged sync_pending")
		}
	})
}

func TestPaymentUC_Reconcile(t *testing.T) {
	now := time.Date(2025, 12, 3, 9, 15, 0, 0, time.UTC)

	t.Run("settles gateway-paid invoices missed locally", func(t *testing.T) {
		settled := 0
		gw := &mockGateway{
			ListPaidExternalIDsFn: func(ctx context.Context, days int) ([]string, error) {
				if days != 3 {
					t.Errorf("lookback = %d, want 3", days)
				}
				return []string{"inv-1", "inv-2"}, nil
			},
		}
		invoices := &mockInvoiceRepo{
			ListUnpaidByExternalIDsFn: func(ctx context.Context, tx repository.Tx, externalIDs []string) ([]*model.Invoice, error) {
				inv := paidInvoiceFixture(model.InvoiceStatusUnpaid)
				return []*model.Invoice{inv}, nil
			},
			FindByExternalIDFn: func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
				return paidInvoiceFixture(model.InvoiceStatusUnpaid), nil
			},
			MarkPaidFn: func(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
				settled++
				return nil
			},
		}
		subs := &mockSubscriptionRepo{
			FindByIDFn: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				return overdueSub("sub-1", "cust-1"), nil
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, subs, invoices, &mockTechnicalRepo{}, gw, &mockRouter{}, testLogger())

		tally, err := uc.Reconcile(context.Background(), now)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settled != 1 || tally.OK != 1 {
			t.Errorf("settled = %d, tally = %+v", settled, tally)
		}
	})

	t.Run("gateway outage aborts the sweep", func(t *testing.T) {
		gw := &mockGateway{
			ListPaidExternalIDsFn: func(ctx context.Context, days int) ([]string, error) {
				return nil, errors.New("gateway down")
			},
		}
		uc := NewPaymentUseCase(3, &mockTxManager{}, &mockSubscriptionRepo{}, &mockInvoiceRepo{}, &mockTechnicalRepo{}, gw, &mockRouter{}, testLogger())

		if _, err := uc.Reconcile(context.Background(), now); err == nil {
			t.Error("expected error when the gateway listing fails")
		}
	})
}
