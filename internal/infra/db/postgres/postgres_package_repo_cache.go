package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
	"ftth-billing/internal/infra/metrics"
	red "ftth-billing/internal/infra/redis"
)

var _ repository.PackageRepository = (*packageRepoCacheDecorator)(nil)

// packageRepoCacheDecorator caches the read-mostly service package
// catalog in Redis; writes invalidate both the single entry and the
// full listing.
type packageRepoCacheDecorator struct {
	inner repository.PackageRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPackageRepoCacheDecorator(inner repository.PackageRepository, cache red.RedisClient, ttl time.Duration) repository.PackageRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &packageRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (d *packageRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error) {
	key := fmt.Sprintf("package:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("package", "hit")
		var pkg model.ServicePackage
		if json.Unmarshal([]byte(val), &pkg) == nil {
			return &pkg, nil
		}
	}

	metrics.IncCacheRequest("package", "miss")
	pkg, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		bytes, _ := json.Marshal(pkg)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return pkg, nil
}

// Write operations invalidate the cache.
func (d *packageRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, pkg *model.ServicePackage) error {
	key := fmt.Sprintf("package:%s", pkg.ID)
	d.cache.Del(ctx, key)
	d.cache.Del(ctx, "packages:all")
	return d.inner.Save(ctx, tx, pkg)
}

func (d *packageRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	key := fmt.Sprintf("package:%s", id)
	d.cache.Del(ctx, key)
	d.cache.Del(ctx, "packages:all")
	return d.inner.Delete(ctx, tx, id)
}

func (d *packageRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ServicePackage, error) {
	key := "packages:all"
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("package_list", "hit")
		var pkgs []*model.ServicePackage
		if json.Unmarshal([]byte(val), &pkgs) == nil {
			return pkgs, nil
		}
	}

	metrics.IncCacheRequest("package_list", "miss")
	pkgs, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 0 {
		bytes, _ := json.Marshal(pkgs)
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return pkgs, nil
}
