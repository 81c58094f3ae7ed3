//go:build !integration

package postgres

import (
	"context"
	"time"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
	red "ftth-billing/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPackageRepo mocks the database repository that the package
// cache decorator wraps.
type mockInnerPackageRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, pkg *model.ServicePackage) error
	DeleteFunc   func(ctx context.Context, tx repository.Tx, id string) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.ServicePackage, error)
}

var _ repository.PackageRepository = (*mockInnerPackageRepo)(nil)

func (m *mockInnerPackageRepo) Save(ctx context.Context, tx repository.Tx, pkg *model.ServicePackage) error {
	return m.SaveFunc(ctx, tx, pkg)
}
func (m *mockInnerPackageRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}
func (m *mockInnerPackageRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPackageRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ServicePackage, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc     func(ctx context.Context, key string) (string, error)
	SetFunc     func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc     func(ctx context.Context, keys ...string) error
	PingFunc    func(ctx context.Context) error
	IncrFunc    func(ctx context.Context, key string) (int64, error)
	ExpireFunc  func(ctx context.Context, key string, expiration time.Duration) error
	PublishFunc func(ctx context.Context, channel, payload string) error
	CloseFunc   func() error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Publish(ctx context.Context, channel, payload string) error {
	return m.PublishFunc(ctx, channel, payload)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
