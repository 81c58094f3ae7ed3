// File: internal/usecase/mock_test.go
package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
	"ftth-billing/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- transaction manager ----

type mockTxManager struct {
	WithTxFn func(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFn != nil {
		return m.WithTxFn(ctx, opts, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- repositories ----

type mockCustomerRepo struct {
	SaveFn     func(ctx context.Context, tx repository.Tx, c *model.Customer) error
	FindByIDFn func(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error)
	CountAllFn func(ctx context.Context, tx repository.Tx) (int64, error)
}

func (m *mockCustomerRepo) Save(ctx context.Context, tx repository.Tx, c *model.Customer) error {
	return m.SaveFn(ctx, tx, c)
}
func (m *mockCustomerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error) {
	return m.FindByIDFn(ctx, tx, id)
}
func (m *mockCustomerRepo) CountAll(ctx context.Context, tx repository.Tx) (int64, error) {
	return m.CountAllFn(ctx, tx)
}

type mockSubscriptionRepo struct {
	SaveFn                  func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindByIDFn              func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error)
	FindActiveByCustomerFn  func(ctx context.Context, tx repository.Tx, customerID string) (*model.Subscription, error)
	FindLatestByCustomerFn  func(ctx context.Context, tx repository.Tx, customerID string) (*model.Subscription, error)
	ListDueOnFn             func(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Subscription, error)
	ListOverdueFn           func(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Subscription, error)
	ListOverdueByLocationFn func(ctx context.Context, tx repository.Tx, due time.Time, location string, offset, limit int) ([]*model.Subscription, error)
	ListOverdueLocationsFn  func(ctx context.Context, tx repository.Tx, due time.Time) ([]repository.LocationCount, error)
	UpdateStatusFn          func(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error
	CountByStatusFn         func(ctx context.Context, tx repository.Tx, status model.SubscriptionStatus) (int64, error)
}

func (m *mockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	return m.SaveFn(ctx, tx, s)
}
func (m *mockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	return m.FindByIDFn(ctx, tx, id)
}
func (m *mockSubscriptionRepo) FindActiveByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.Subscription, error) {
	return m.FindActiveByCustomerFn(ctx, tx, customerID)
}
func (m *mockSubscriptionRepo) FindLatestByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.Subscription, error) {
	return m.FindLatestByCustomerFn(ctx, tx, customerID)
}
func (m *mockSubscriptionRepo) ListDueOn(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Subscription, error) {
	return m.ListDueOnFn(ctx, tx, due, offset, limit)
}
func (m *mockSubscriptionRepo) ListOverdue(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Subscription, error) {
	return m.ListOverdueFn(ctx, tx, due, offset, limit)
}
func (m *mockSubscriptionRepo) ListOverdueByLocation(ctx context.Context, tx repository.Tx, due time.Time, location string, offset, limit int) ([]*model.Subscription, error) {
	return m.ListOverdueByLocationFn(ctx, tx, due, location, offset, limit)
}
func (m *mockSubscriptionRepo) ListOverdueLocations(ctx context.Context, tx repository.Tx, due time.Time) ([]repository.LocationCount, error) {
	return m.ListOverdueLocationsFn(ctx, tx, due)
}
func (m *mockSubscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	return m.UpdateStatusFn(ctx, tx, id, status)
}
func (m *mockSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.SubscriptionStatus) (int64, error) {
	return m.CountByStatusFn(ctx, tx, status)
}

type mockInvoiceRepo struct {
	SaveFn                            func(ctx context.Context, tx repository.Tx, inv *model.Invoice) error
	FindByIDFn                        func(ctx context.Context, tx repository.Tx, id string) (*model.Invoice, error)
	FindByExternalIDFn                func(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error)
	ExistsByNumberFn                  func(ctx context.Context, tx repository.Tx, number string) (bool, error)
	ListCustomersWithInvoiceInMonthFn func(ctx context.Context, tx repository.Tx, start, end time.Time) (map[string]struct{}, error)
	ListUnpaidByExternalIDsFn         func(ctx context.Context, tx repository.Tx, externalIDs []string) ([]*model.Invoice, error)
	ListUnpaidDueOnFn                 func(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Invoice, error)
	ListFailedForRetryFn              func(ctx context.Context, tx repository.Tx, maxRetries int, minInterval time.Duration, limit int) ([]*model.Invoice, error)
	SetGatewayResultFn                func(ctx context.Context, tx repository.Tx, id string, status model.GatewayCallStatus, gatewayID, externalID, paymentURL, gatewayErr string) error
	MarkRetryingFn                    func(ctx context.Context, tx repository.Tx, id string, at time.Time) error
	RecordRetryFailureFn              func(ctx context.Context, tx repository.Tx, id string, gatewayErr string) error
	MarkPaidFn                        func(ctx context.Context, tx repository.Tx, id string, paidAt time.Time) error
	ExpireUnpaidByCustomerFn          func(ctx context.Context, tx repository.Tx, customerID string) (int64, error)
	CountByStatusFn                   func(ctx context.Context, tx repository.Tx, status model.InvoiceStatus) (int64, error)
	SumPaidSinceFn                    func(ctx context.Context, tx repository.Tx, since time.Time) (int64, error)
}

func (m *mockInvoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	return m.SaveFn(ctx, tx, inv)
}
func (m *mockInvoiceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Invoice, error) {
	return m.FindByIDFn(ctx, tx, id)
}
func (m *mockInvoiceRepo) FindByExternalID(ctx context.Context, tx repository.Tx, externalID string) (*model.Invoice, error) {
	return m.FindByExternalIDFn(ctx, tx, externalID)
}
func (m *mockInvoiceRepo) ExistsByNumber(ctx context.Context, tx repository.Tx, number string) (bool, error) {
	return m.ExistsByNumberFn(ctx, tx, number)
}
func (m *mockInvoiceRepo) ListCustomersWithInvoiceInMonth(ctx context.Context, tx repository.Tx, start, end time.Time) (map[string]struct{}, error) {
	return m.ListCustomersWithInvoiceInMonthFn(ctx, tx, start, end)
}
func (m *mockInvoiceRepo) ListUnpaidByExternalIDs(ctx context.Context, tx repository.Tx, externalIDs []string) ([]*model.Invoice, error) {
	return m.ListUnpaidByExternalIDsFn(ctx, tx, externalIDs)
}
func (m *mockInvoiceRepo) ListUnpaidDueOn(ctx context.Context, tx repository.Tx, due time.Time, offset, limit int) ([]*model.Invoice, error) {
	return m.ListUnpaidDueOnFn(ctx, tx, due, offset, limit)
}
func (m *mockInvoiceRepo) ListFailedForRetry(ctx context.Context, tx repository.Tx, maxRetries int, minInterval time.Duration, limit int) ([]*model.Invoice, error) {
	return m.ListFailedForRetryFn(ctx, tx, maxRetries, minInterval, limit)
}
func (m *mockInvoiceRepo) SetGatewayResult(ctx context.Context, tx repository.Tx, id string, status model.GatewayCallStatus, gatewayID, externalID, paymentURL, gatewayErr string) error {
	return m.SetGatewayResultFn(ctx, tx, id, status, gatewayID, externalID, paymentURL, gatewayErr)
}
func (m *mockInvoiceRepo) MarkRetrying(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
	return m.MarkRetryingFn(ctx, tx, id, at)
}
func (m *mockInvoiceRepo) RecordRetryFailure(ctx context.Context, tx repository.Tx, id string, gatewayErr string) error {
	return m.RecordRetryFailureFn(ctx, tx, id, gatewayErr)
}
func (m *mockInvoiceRepo) MarkPaid(ctx context.Context, tx repository.Tx, id string, paidAt time.Time) error {
	return m.MarkPaidFn(ctx, tx, id, paidAt)
}
func (m *mockInvoiceRepo) ExpireUnpaidByCustomer(ctx context.Context, tx repository.Tx, customerID string) (int64, error) {
	return m.ExpireUnpaidByCustomerFn(ctx, tx, customerID)
}
func (m *mockInvoiceRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.InvoiceStatus) (int64, error) {
	return m.CountByStatusFn(ctx, tx, status)
}
func (m *mockInvoiceRepo) SumPaidSince(ctx context.Context, tx repository.Tx, since time.Time) (int64, error) {
	return m.SumPaidSinceFn(ctx, tx, since)
}

type mockBrandRepo struct {
	FindByIDFn    func(ctx context.Context, tx repository.Tx, id string) (*model.BrandProfile, error)
	FindByBrandFn func(ctx context.Context, tx repository.Tx, brand string) (*model.BrandProfile, error)
}

func (m *mockBrandRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.BrandProfile, error) {
	return m.FindByIDFn(ctx, tx, id)
}
func (m *mockBrandRepo) FindByBrand(ctx context.Context, tx repository.Tx, brand string) (*model.BrandProfile, error) {
	return m.FindByBrandFn(ctx, tx, brand)
}

type mockPackageRepo struct {
	SaveFn     func(ctx context.Context, tx repository.Tx, p *model.ServicePackage) error
	DeleteFn   func(ctx context.Context, tx repository.Tx, id string) error
	FindByIDFn func(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error)
	ListAllFn  func(ctx context.Context, tx repository.Tx) ([]*model.ServicePackage, error)
}

func (m *mockPackageRepo) Save(ctx context.Context, tx repository.Tx, p *model.ServicePackage) error {
	return m.SaveFn(ctx, tx, p)
}
func (m *mockPackageRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFn(ctx, tx, id)
}
func (m *mockPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error) {
	return m.FindByIDFn(ctx, tx, id)
}
func (m *mockPackageRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ServicePackage, error) {
	return m.ListAllFn(ctx, tx)
}

type mockTechnicalRepo struct {
	FindByCustomerFn   func(ctx context.Context, tx repository.Tx, customerID string) (*model.TechnicalRecord, error)
	SetSyncPendingFn   func(ctx context.Context, tx repository.Tx, id string, pending bool) error
	ListSyncPendingFn  func(ctx context.Context, tx repository.Tx, limit int) ([]*model.TechnicalRecord, error)
	CountSyncPendingFn func(ctx context.Context, tx repository.Tx) (int64, error)
}

func (m *mockTechnicalRepo) FindByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.TechnicalRecord, error) {
	return m.FindByCustomerFn(ctx, tx, customerID)
}
func (m *mockTechnicalRepo) SetSyncPending(ctx context.Context, tx repository.Tx, id string, pending bool) error {
	return m.SetSyncPendingFn(ctx, tx, id, pending)
}
func (m *mockTechnicalRepo) ListSyncPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.TechnicalRecord, error) {
	return m.ListSyncPendingFn(ctx, tx, limit)
}
func (m *mockTechnicalRepo) CountSyncPending(ctx context.Context, tx repository.Tx) (int64, error) {
	if m.CountSyncPendingFn != nil {
		return m.CountSyncPendingFn(ctx, tx)
	}
	return 0, nil
}

// ---- adapters ----

type mockGateway struct {
	CreateInvoiceFn       func(ctx context.Context, req adapter.InvoiceRequest) (*adapter.InvoiceSession, error)
	ListPaidExternalIDsFn func(ctx context.Context, days int) ([]string, error)
}

func (m *mockGateway) Name() string { return "mock" }
func (m *mockGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.InvoiceSession, error) {
	return m.CreateInvoiceFn(ctx, req)
}
func (m *mockGateway) ListPaidExternalIDs(ctx context.Context, days int) ([]string, error) {
	return m.ListPaidExternalIDsFn(ctx, days)
}

type mockRouter struct {
	SetSubscriberStateFn func(ctx context.Context, rec *model.TechnicalRecord, active bool) error
}

func (m *mockRouter) Name() string { return "mock" }
func (m *mockRouter) SetSubscriberState(ctx context.Context, rec *model.TechnicalRecord, active bool) error {
	return m.SetSubscriberStateFn(ctx, rec, active)
}

type mockNotifier struct {
	NotifyFn func(ctx context.Context, alert model.Alert) error
}

func (m *mockNotifier) Notify(ctx context.Context, alert model.Alert) error {
	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, alert)
	}
	return nil
}

// Conformance checks keep the mocks honest.
var (
	_ repository.TransactionManager  = (*mockTxManager)(nil)
	_ repository.CustomerRepository  = (*mockCustomerRepo)(nil)
	_ repository.SubscriptionRepository = (*mockSubscriptionRepo)(nil)
	_ repository.InvoiceRepository   = (*mockInvoiceRepo)(nil)
	_ repository.BrandRepository     = (*mockBrandRepo)(nil)
	_ repository.PackageRepository   = (*mockPackageRepo)(nil)
	_ repository.TechnicalRepository = (*mockTechnicalRepo)(nil)
	_ adapter.PaymentGateway         = (*mockGateway)(nil)
	_ adapter.RouterService          = (*mockRouter)(nil)
	_ adapter.AlertNotifier          = (*mockNotifier)(nil)
)
